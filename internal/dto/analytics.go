package dto

type StatsResponse struct {
	Labels        []string `json:"labels"`
	Views         []int64  `json:"views"`
	Visitors      []int64  `json:"visitors"`
	TotalViews    int64    `json:"total_views"`
	TotalVisitors int64    `json:"total_visitors"`
}

type SettingsRequest struct {
	SiteName  string `json:"site_name"`
	Telegram  string `json:"telegram,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}
