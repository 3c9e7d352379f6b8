package gamification

// Rule ties a point threshold to the badge it awards. Rules are data so
// new badges never touch the evaluation code.
type Rule struct {
	Threshold   int
	Name        string
	Description string
	Icon        string
	Criteria    string
}

// DefaultRules must stay in ascending threshold order.
var DefaultRules = []Rule{
	{
		Threshold:   1,
		Name:        "First Step",
		Description: "Earned your very first point",
		Icon:        "footprints",
		Criteria:    "points_1",
	},
	{
		Threshold:   10,
		Name:        "Reader",
		Description: "Collected 10 points",
		Icon:        "book-open",
		Criteria:    "points_10",
	},
}
