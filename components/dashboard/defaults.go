package dashboard

var defaultCategories = []Category{
	{
		Name:      "CSPM Executive Dashboard",
		ShortForm: "CSPM",
		Widgets: []Widget{
			{ID: "cloud-accounts", Name: "Cloud Accounts", Content: "Cloud Accounts Widget"},
			{ID: "risk-assessment", Name: "Cloud Account Risk Assessment", Content: "Risk Assessment Widget"},
		},
	},
	{
		Name:      "CWPP Dashboard",
		ShortForm: "CWPP",
		Widgets: []Widget{
			{ID: "namespace-alerts", Name: "Top 5 Namespace Specific Alerts", Content: "Namespace Alerts Widget"},
			{ID: "workload-alerts", Name: "Workload Alerts", Content: "Workload Alerts Widget"},
		},
	},
	{
		Name:      "Registry Scan",
		ShortForm: "RS",
		Widgets: []Widget{
			{ID: "image-risk", Name: "Image Risk Assessment", Content: "Image Risk Widget"},
			{ID: "security-issues", Name: "Image Security Issues", Content: "Security Issues Widget"},
		},
	},
}

// DefaultTree returns the starter dashboard: three categories with two widgets each.
func DefaultTree() Tree {
	return Tree{Categories: defaultCategories}.Clone()
}
