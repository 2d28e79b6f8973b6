package model

import "time"

// Category groups transactions of one type.
type Category struct {
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     string          `json:"color"`
	Icon      string          `json:"icon"`
	ID        int64           `json:"id"`
}

// Ref returns the embedded form of the category.
func (c Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon}
}

// CategoryRequest is the payload for creating or updating a category.
type CategoryRequest struct {
	Name  string          `json:"name" validate:"notblank,max=100"`
	Type  TransactionType `json:"type" validate:"oneof=INCOME EXPENSE"`
	Color string          `json:"color,omitempty" validate:"omitempty,fintrack_color"`
	Icon  string          `json:"icon,omitempty" validate:"max=50"`
}
