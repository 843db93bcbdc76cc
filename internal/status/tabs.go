package status

const AllTab = "all"

type Tab struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Tabs строит набор вкладок фильтра: "all" плюс по одной на значение.
// Активна ровно одна вкладка; неизвестный или пустой выбор активирует "all".
func Tabs(presentations []Presentation, selected string) []Tab {
	known := false
	for _, p := range presentations {
		if p.Value == selected {
			known = true
			break
		}
	}
	if !known {
		selected = AllTab
	}

	tabs := make([]Tab, 0, len(presentations)+1)
	tabs = append(tabs, Tab{Value: AllTab, Label: "All", Active: selected == AllTab})
	for _, p := range presentations {
		tabs = append(tabs, Tab{Value: p.Value, Label: p.Label, Active: p.Value == selected})
	}
	return tabs
}
