package tenant

import (
	"github.com/labstack/echo/v4"

	"school-service/internal/apperr"
)

// Context identifies the caller and the tenant every query must be scoped by.
// It is resolved per request from the JWT claims the auth middleware stored in
// the echo context; nothing caches it across requests and no operation falls
// back to a default tenant id.
type Context struct {
	UserID   uint
	Email    string
	AamarID  string
	SchoolID uint
	BranchID uint
	Role     string
}

// FromEcho resolves the tenant context from an authenticated request.
func FromEcho(c echo.Context) (Context, error) {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return Context{}, apperr.Unauthenticated("authentication required")
	}
	aamarID, ok := c.Get("aamar_id").(string)
	if !ok || aamarID == "" {
		return Context{}, apperr.Unauthenticated("tenant context missing")
	}

	ctx := Context{UserID: userID, AamarID: aamarID}
	if email, ok := c.Get("email").(string); ok {
		ctx.Email = email
	}
	if schoolID, ok := c.Get("school_id").(uint); ok {
		ctx.SchoolID = schoolID
	}
	if branchID, ok := c.Get("branch_id").(uint); ok {
		ctx.BranchID = branchID
	}
	if role, ok := c.Get("role").(string); ok {
		ctx.Role = role
	}
	return ctx, nil
}
