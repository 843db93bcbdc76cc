package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var alreadyVerifiedPhrases = []string{
	"Already Verified",
	"Contract source code already verified",
}

// ErrAlreadyVerified контракт уже верифицирован, считается успехом
var ErrAlreadyVerified = errors.New("contract already verified")

// IsAlreadyVerified классифицирует ошибку explorer по тексту сообщения
func IsAlreadyVerified(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAlreadyVerified) {
		return true
	}
	msg := err.Error()
	for _, phrase := range alreadyVerifiedPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// APIError ответ explorer со status "0"
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("explorer %s failed: %s", e.Action, e.Message)
}

type apiResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// VerifyRequest параметры verifysourcecode
type VerifyRequest struct {
	Address              string
	ContractName         string
	SourceCode           string
	CompilerVersion      string
	ConstructorArguments string
	OptimizationUsed     bool
	Runs                 int
}

// Client клиент Etherscan-совместимого API верификации
type Client struct {
	apiURL       string
	apiKey       string
	http         *http.Client
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *zap.Logger
}

const (
	defaultPollInterval = 3 * time.Second
	defaultPollTimeout  = 2 * time.Minute
)

// NewClient: неположительные интервалы заменяются дефолтами
func NewClient(apiURL, apiKey string, pollInterval, pollTimeout time.Duration, logger *zap.Logger) *Client {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	return &Client{
		apiURL:       apiURL,
		apiKey:       apiKey,
		http:         &http.Client{Timeout: 30 * time.Second},
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
	}
}

func (c *Client) do(req *http.Request, action string) (*apiResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer %s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read explorer response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer %s returned HTTP %d: %s", action, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out apiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode explorer response: %w", err)
	}
	return &out, nil
}

// Submit отправляет исходники и возвращает guid задачи верификации
func (c *Client) Submit(ctx context.Context, r VerifyRequest) (string, error) {
	optimization := "0"
	if r.OptimizationUsed {
		optimization = "1"
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("module", "contract")
	form.Set("action", "verifysourcecode")
	form.Set("contractaddress", r.Address)
	form.Set("sourceCode", r.SourceCode)
	form.Set("codeformat", "solidity-single-file")
	form.Set("contractname", r.ContractName)
	form.Set("compilerversion", r.CompilerVersion)
	form.Set("optimizationUsed", optimization)
	form.Set("runs", strconv.Itoa(r.Runs))
	// написание параметра как в API Etherscan
	form.Set("constructorArguements", strings.TrimPrefix(r.ConstructorArguments, "0x"))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req, "verifysourcecode")
	if err != nil {
		return "", err
	}
	if resp.Status != "1" {
		return "", &APIError{Action: "verifysourcecode", Message: resp.Result}
	}

	c.logger.Debug("verification submitted", zap.String("address", r.Address), zap.String("guid", resp.Result))
	return resp.Result, nil
}

// CheckStatus возвращает done=false, пока задача в очереди
func (c *Client) CheckStatus(ctx context.Context, guid string) (bool, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("module", "contract")
	q.Set("action", "checkverifystatus")
	q.Set("guid", guid)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("failed to build status request: %w", err)
	}

	resp, err := c.do(req, "checkverifystatus")
	if err != nil {
		return false, err
	}

	switch {
	case strings.Contains(resp.Result, "Pending in queue"):
		return false, nil
	case resp.Status == "1":
		return true, nil
	default:
		return true, &APIError{Action: "checkverifystatus", Message: resp.Result}
	}
}

// Verify отправляет исходники и ждёт результата проверки
func (c *Client) Verify(ctx context.Context, r VerifyRequest) error {
	guid, err := c.Submit(ctx, r)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.pollTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("verification %s did not finish: %w", guid, ctx.Err())
		case <-ticker.C:
		}

		done, err := c.CheckStatus(ctx, guid)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("verification %s did not finish: %w", guid, ctx.Err())
			}
			return err
		}
		if done {
			return nil
		}
		c.logger.Debug("verification pending", zap.String("guid", guid))
	}
}
