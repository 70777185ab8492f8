package models

import "time"

type Goal struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	Target        float64
	Contributions []Contribution
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Contribution struct {
	ID        string
	GoalID    string
	Amount    float64
	CreatedAt time.Time
}

// Progress sums the recorded contributions toward the goal's target.
func (g Goal) Progress() float64 {
	var total float64
	for _, c := range g.Contributions {
		total += c.Amount
	}
	return total
}
