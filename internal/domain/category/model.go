package category

import "time"

// Category is a skill/service category freelancers tag themselves with
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Tag links a freelancer to a category
type Tag struct {
	FreelancerID int64     `json:"freelancer_id"`
	CategoryID   int64     `json:"category_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// FreelancerSummary is a tagged freelancer row for category listings
type FreelancerSummary struct {
	FreelancerID int64   `json:"freelancer_id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FullName     *string `json:"full_name,omitempty"`
}
