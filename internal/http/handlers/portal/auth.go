package portal

import (
	"time"

	handlershared "github.com/vendora/internal/http/handlers/shared"
	"github.com/vendora/internal/http/response"
	"github.com/vendora/internal/models"

	"github.com/gin-gonic/gin"
)

// LoginRequest 商户登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// VendorProfile 商户资料
type VendorProfile struct {
	ID             uint        `json:"id"`
	Name           string      `json:"name"`
	Slug           string      `json:"slug"`
	Email          string      `json:"email"`
	Status         string      `json:"status"`
	CommissionRate models.Rate `json:"commission_rate"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
}

func buildVendorProfile(vendor *models.Vendor) VendorProfile {
	return VendorProfile{
		ID:             vendor.ID,
		Name:           vendor.Name,
		Slug:           vendor.Slug,
		Email:          vendor.Email,
		Status:         vendor.Status,
		CommissionRate: vendor.CommissionRate,
		LastLoginAt:    vendor.LastLoginAt,
	}
}

// Login 商户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	vendor, token, expiresAt, err := h.AuthService.VendorLogin(req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"vendor":     buildVendorProfile(vendor),
	})
}

// GetCurrentVendor 当前商户资料
func (h *Handler) GetCurrentVendor(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	vendor, err := h.VendorRepo.GetByID(vendorID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if vendor == nil {
		respondError(c, response.CodeNotFound, "error.vendor_not_found", nil)
		return
	}
	response.Success(c, buildVendorProfile(vendor))
}

// ChangePassword 修改密码，成功后旧 token 全部失效
func (h *Handler) ChangePassword(c *gin.Context) {
	vendorID, ok := handlershared.GetVendorID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.AuthService.ChangeVendorPassword(vendorID, req.OldPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
