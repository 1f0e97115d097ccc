package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/bazaar/pkg/optional"
	"github.com/ghuser/bazaar/services/marketplace/domain/models"
)

// CreateAccountRequest is the request body for POST /api/accounts.
type CreateAccountRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2,max=50"    example:"Asha"`
	LastName  string `json:"last_name"  validate:"required,min=2,max=50"    example:"Rao"`
	Email     string `json:"email"      validate:"required,email,max=254"   example:"asha@example.com"`
	Phone     string `json:"phone"      validate:"required,min=10,max=20"   example:"+91 98765 43210"`
	Role      string `json:"role"       validate:"required,oneof=customer seller admin" example:"seller"`
	Password  string `json:"password"   validate:"required,min=8,max=72"    example:"correct horse"`
} // @name CreateAccountRequest

// UpdateAccountRequest is the request body for PATCH /api/accounts/{id}.
// Omitted fields are left unchanged; null is rejected.
type UpdateAccountRequest struct {
	FirstName optional.Value[string] `json:"first_name" swaggertype:"string" example:"Asha"`
	LastName  optional.Value[string] `json:"last_name"  swaggertype:"string" example:"Rao"`
	Phone     optional.Value[string] `json:"phone"      swaggertype:"string" example:"9876543210"`
	Email     optional.Value[string] `json:"email"      swaggertype:"string" example:"asha@example.com"`
} // @name UpdateAccountRequest

func (r UpdateAccountRequest) patch() models.AccountPatch {
	return models.AccountPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Email:     r.Email,
	}
}

// AccountResponse is the public form of an account.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"         example:"123e4567-e89b-12d3-a456-426614174000"`
	FirstName string    `json:"first_name" example:"Asha"`
	LastName  string    `json:"last_name"  example:"Rao"`
	Email     string    `json:"email"      example:"asha@example.com"`
	Phone     string    `json:"phone"      example:"9876543210"`
	Role      string    `json:"role"       example:"seller"`
	IsActive  bool      `json:"is_active"  example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
} // @name AccountResponse

func toAccountResponse(a *models.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		FirstName: a.FirstName.String(),
		LastName:  a.LastName.String(),
		Email:     a.Email,
		Phone:     a.Phone,
		Role:      a.Role.String(),
		IsActive:  a.IsActive(),
		CreatedAt: a.CreatedAt,
	}
}

// CreateItemRequest is the request body for POST /api/items.
type CreateItemRequest struct {
	Name       string    `json:"name"        validate:"required,min=3,max=100" example:"Brass lamp"`
	Price      int64     `json:"price"       validate:"required,gt=0"          example:"129900"`
	CategoryID uuid.UUID `json:"category_id" validate:"required"               example:"550e8400-e29b-41d4-a716-446655440000"`
} // @name CreateItemRequest

// UpdateItemRequest is the request body for PATCH /api/items/{id}.
type UpdateItemRequest struct {
	Name       optional.Value[string]    `json:"name"        swaggertype:"string"  example:"Brass lamp"`
	Price      optional.Value[int64]     `json:"price"       swaggertype:"integer" example:"99900"`
	CategoryID optional.Value[uuid.UUID] `json:"category_id" swaggertype:"string"  example:"550e8400-e29b-41d4-a716-446655440000"`
} // @name UpdateItemRequest

func (r UpdateItemRequest) patch() models.ItemPatch {
	return models.ItemPatch{Name: r.Name, Price: r.Price, CategoryID: r.CategoryID}
}

// ItemResponse is the public form of an item. Price is in paise.
type ItemResponse struct {
	ID         uuid.UUID `json:"id"          example:"123e4567-e89b-12d3-a456-426614174000"`
	Name       string    `json:"name"        example:"Brass lamp"`
	Price      int64     `json:"price"       example:"129900"`
	SellerID   uuid.UUID `json:"seller_id"   example:"123e4567-e89b-12d3-a456-426614174001"`
	CategoryID uuid.UUID `json:"category_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	IsActive   bool      `json:"is_active"   example:"true"`
	CreatedAt  time.Time `json:"created_at"  example:"2024-01-15T10:30:00Z"`
} // @name ItemResponse

func toItemResponse(i *models.Item) ItemResponse {
	return ItemResponse{
		ID:         i.ID,
		Name:       i.Name.String(),
		Price:      i.Price.Int64(),
		SellerID:   i.SellerID,
		CategoryID: i.CategoryID,
		IsActive:   i.IsActive(),
		CreatedAt:  i.CreatedAt,
	}
}

// CreateCategoryRequest is the request body for POST /api/categories.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=3,max=100" example:"Home decor"`
} // @name CreateCategoryRequest

// CategoryResponse is the public form of a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"         example:"550e8400-e29b-41d4-a716-446655440000"`
	AdminID   uuid.UUID `json:"admin_id"   example:"123e4567-e89b-12d3-a456-426614174002"`
	Name      string    `json:"name"       example:"Home decor"`
	IsActive  bool      `json:"is_active"  example:"true"`
	CreatedAt time.Time `json:"created_at" example:"2024-01-15T10:30:00Z"`
} // @name CategoryResponse

func toCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		AdminID:   c.AdminID,
		Name:      c.Name.String(),
		IsActive:  c.IsActive(),
		CreatedAt: c.CreatedAt,
	}
}

// SignInRequest is the request body for POST /api/sessions.
type SignInRequest struct {
	Email    string `json:"email"    validate:"required,max=254" example:"asha@example.com"`
	Password string `json:"password" validate:"required,max=72"  example:"correct horse"`
} // @name SignInRequest

func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
