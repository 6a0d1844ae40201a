package transport

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Skotchmaster/content_backend/internal/models"
)

type DetailResponse struct {
	Detail string `json:"detail"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&r.Email, validation.Required, validation.Length(3, 255), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(5, 72), passwordBytes),
	)
}

// MaxPasswordBytes is the bcrypt input limit. Length counts runes, so
// multi-byte passwords need their own check.
const MaxPasswordBytes = 72

var errPasswordTooLong = errors.New("must be no more than 72 bytes")

var passwordBytes = validation.By(func(v any) error {
	if s, _ := v.(string); len(s) > MaxPasswordBytes {
		return errPasswordTooLong
	}
	return nil
})

type LoginRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ChangePasswordRequest accepts snake_case and camelCase field names.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r *ChangePasswordRequest) UnmarshalJSON(b []byte) error {
	var raw struct {
		CurrentPassword      string `json:"current_password"`
		NewPassword          string `json:"new_password"`
		CurrentPasswordCamel string `json:"currentPassword"`
		NewPasswordCamel     string `json:"newPassword"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	r.CurrentPassword = firstNonEmpty(raw.CurrentPassword, raw.CurrentPasswordCamel)
	r.NewPassword = firstNonEmpty(raw.NewPassword, raw.NewPasswordCamel)
	return nil
}

func (r *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CurrentPassword, validation.Required, validation.Length(5, 72), passwordBytes),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(5, 72), passwordBytes),
	)
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, IsActive: u.IsActive}
}

type BlogCreateRequest struct {
	Title   string `form:"title"`
	Content string `form:"content"`
}

func (r *BlogCreateRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.Required, validation.Length(3, 255)),
		validation.Field(&r.Content, validation.Required, validation.Length(10, 0)),
	)
}

type BlogUpdateRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (r *BlogUpdateRequest) Validate() error {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		r.Title = &t
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(3, 255)),
		validation.Field(&r.Content, validation.NilOrNotEmpty, validation.Length(10, 0)),
	)
}

type BlogResponse struct {
	ID      uint    `json:"id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
	OwnerID uint    `json:"owner_id"`
	Author  *string `json:"author"`
}

func NewBlogResponse(b *models.Blog) BlogResponse {
	resp := BlogResponse{ID: b.ID, Title: b.Title, Content: b.Content, OwnerID: b.OwnerID}
	if b.Image != "" {
		img := b.Image
		resp.Image = &img
	}
	if b.Owner != nil {
		name := b.Owner.Username
		resp.Author = &name
	}
	return resp
}

func NewBlogList(items []models.Blog) []BlogResponse {
	out := make([]BlogResponse, 0, len(items))
	for i := range items {
		out = append(out, NewBlogResponse(&items[i]))
	}
	return out
}

type BlogSearchResponse struct {
	Data []BlogResponse `json:"data"`
	Meta PageMeta       `json:"meta"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type FAQCreateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func (r *FAQCreateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Question, validation.Required, validation.Length(5, 255)),
		validation.Field(&r.Answer, validation.Required, validation.Length(10, 0)),
	)
}

type FAQUpdateRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

func (r *FAQUpdateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Question, validation.NilOrNotEmpty, validation.Length(5, 255)),
		validation.Field(&r.Answer, validation.NilOrNotEmpty, validation.Length(10, 0)),
	)
}

type ContactListResponse struct {
	Total int64                   `json:"total"`
	Items []models.ContactMessage `json:"items"`
}

type StatItem struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type StatsResponse struct {
	Stats []StatItem `json:"stats"`
}

type RecentMessagesResponse struct {
	Messages []models.ContactMessage `json:"messages"`
}

type RecentBlogsResponse struct {
	Blogs []BlogResponse `json:"blogs"`
}

type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
