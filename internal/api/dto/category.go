package dto

// CategoryRequest represents a category create/update request
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
}

// TagRequest represents a freelancer tagging request
type TagRequest struct {
	CategoryID int64 `json:"category_id" validate:"required,gt=0"`
}
