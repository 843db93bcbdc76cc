package explorer

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeVerified        Outcome = "verified"
	OutcomeAlreadyVerified Outcome = "already_verified"
	OutcomeFailed          Outcome = "failed"
)

type Result struct {
	Name    string
	Address string
	Outcome Outcome
	Err     error
}

type Summary struct {
	Verified        int
	AlreadyVerified int
	Failed          int
}

func (s Summary) HasFailures() bool { return s.Failed > 0 }

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Outcome {
		case OutcomeVerified:
			s.Verified++
		case OutcomeAlreadyVerified:
			s.AlreadyVerified++
		case OutcomeFailed:
			s.Failed++
		}
	}
	return s
}

type Verifier interface {
	Verify(ctx context.Context, r VerifyRequest) error
}

// Defaults значения для контрактов, у которых они не указаны в файле
type Defaults struct {
	CompilerVersion  string
	OptimizationUsed bool
	Runs             int
}

// Runner верифицирует контракты строго по одному, с паузой между ними
type Runner struct {
	verifier Verifier
	delay    time.Duration
	defaults Defaults
	logger   *zap.Logger
	readFile func(name string) ([]byte, error)
}

func NewRunner(verifier Verifier, delay time.Duration, defaults Defaults, logger *zap.Logger) *Runner {
	return &Runner{
		verifier: verifier,
		delay:    delay,
		defaults: defaults,
		logger:   logger,
		readFile: os.ReadFile,
	}
}

func (r *Runner) request(d Deployment) (VerifyRequest, error) {
	req := VerifyRequest{
		Address:              d.Address,
		ContractName:         d.ContractName(),
		CompilerVersion:      d.CompilerVersion,
		ConstructorArguments: d.ConstructorArguments,
		OptimizationUsed:     r.defaults.OptimizationUsed,
		Runs:                 r.defaults.Runs,
	}
	if req.CompilerVersion == "" {
		req.CompilerVersion = r.defaults.CompilerVersion
	}
	if req.CompilerVersion == "" {
		return req, fmt.Errorf("no compiler version for %s", d.Name)
	}
	if d.SourceFile == "" {
		return req, fmt.Errorf("no source file for %s", d.Name)
	}

	src, err := r.readFile(d.SourceFile)
	if err != nil {
		return req, fmt.Errorf("failed to read source for %s: %w", d.Name, err)
	}
	req.SourceCode = string(src)
	return req, nil
}

func (r *Runner) verifyOne(ctx context.Context, d Deployment) Result {
	res := Result{Name: d.Name, Address: d.Address}

	req, err := r.request(d)
	if err == nil {
		err = r.verifier.Verify(ctx, req)
	}

	switch {
	case err == nil:
		res.Outcome = OutcomeVerified
		r.logger.Info("contract verified", zap.String("contract", d.Name), zap.String("address", d.Address))
	case IsAlreadyVerified(err):
		res.Outcome = OutcomeAlreadyVerified
		r.logger.Info("contract already verified", zap.String("contract", d.Name), zap.String("address", d.Address))
	default:
		res.Outcome = OutcomeFailed
		res.Err = err
		r.logger.Error("contract verification failed", zap.String("contract", d.Name), zap.String("address", d.Address), zap.Error(err))
	}
	return res
}

// Run обрабатывает все контракты по порядку. Ошибки отдельных контрактов
// попадают в Result и не прерывают цикл; отмена ctx прерывает и возвращает
// уже полученные результаты
func (r *Runner) Run(ctx context.Context, deployments []Deployment) ([]Result, error) {
	results := make([]Result, 0, len(deployments))

	for i, d := range deployments {
		if i > 0 && r.delay > 0 {
			t := time.NewTimer(r.delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return results, ctx.Err()
			case <-t.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		r.logger.Info("verifying contract",
			zap.Int("index", i+1),
			zap.Int("total", len(deployments)),
			zap.String("contract", d.Name))
		results = append(results, r.verifyOne(ctx, d))
	}
	return results, nil
}
