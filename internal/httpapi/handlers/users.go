package handlers

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Cyril-dot/billionBackend/internal/auth"
	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/email"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
	"github.com/Cyril-dot/billionBackend/internal/identity"
	"github.com/Cyril-dot/billionBackend/internal/logger"
)

// randomCaptcha6 generates the 6 digit code emailed during registration.
func randomCaptcha6() (string, error) {
	const digits = "0123456789"
	out := make([]byte, 6)
	for i := range out {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		out[i] = digits[n.Int64()]
	}
	return string(out), nil
}

type captchaReq struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) SendCaptcha(c *gin.Context) {
	var req captchaReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	code, err := randomCaptcha6()
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20004, "failed to generate captcha")
		return
	}
	if err := h.Redis.SetCaptcha(c.Request.Context(), req.Email, code); err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
		return
	}

	go func(to, code string) {
		subject := "Billions Laptops | Your verification code"
		body := "Your verification code is: " + code + "\n\nIt expires in 10 minutes.\n"
		if err := email.SendText(h.SMTP, to, subject, body); err != nil {
			logger.Log.Warn("captcha email failed", zap.String("to", to), zap.Error(err))
		}
	}(req.Email, code)

	common.OK(c, gin.H{"sent": true})
}

// checkCaptcha verifies and consumes the pending captcha for the email.
func (h *Handler) checkCaptcha(c *gin.Context, emailAddr, code string) bool {
	stored, err := h.Redis.GetCaptcha(c.Request.Context(), emailAddr)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.Fail(c, http.StatusBadRequest, 10020, "captcha expired or not found")
			return false
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "redis error")
		return false
	}
	if stored != code {
		common.Fail(c, http.StatusBadRequest, 10021, "invalid captcha")
		return false
	}
	_ = h.Redis.DeleteCaptcha(c.Request.Context(), emailAddr)
	return true
}

type registerCustomerReq struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Captcha   string `json:"captcha" binding:"required"`
}

func (h *Handler) RegisterCustomer(c *gin.Context) {
	var req registerCustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if !h.checkCaptcha(c, req.Email, req.Captcha) {
		return
	}

	cust, err := h.Identity.RegisterCustomer(c.Request.Context(), identity.RegisterCustomerInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			common.Fail(c, http.StatusBadRequest, 10003, "email already registered")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to create account")
		return
	}

	token, err := auth.SignToken(cust.ID, auth.RoleCustomer, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	go func(to, name string) {
		subject, body := email.Welcome(name)
		if err := email.SendText(h.SMTP, to, subject, body); err != nil {
			logger.Log.Warn("welcome email failed", zap.String("to", to), zap.Error(err))
		}
	}(cust.Email, cust.DisplayName())

	common.Created(c, gin.H{
		"id":    cust.ID,
		"email": cust.Email,
		"name":  cust.DisplayName(),
		"token": token,
	})
}

type registerMerchantReq struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone"`
	ShopName    string `json:"shop_name"`
	ShopAddress string `json:"shop_address"`
	Password    string `json:"password" binding:"required,min=8"`
	Captcha     string `json:"captcha" binding:"required"`
}

func (h *Handler) RegisterMerchant(c *gin.Context) {
	var req registerMerchantReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}
	if !h.checkCaptcha(c, req.Email, req.Captcha) {
		return
	}

	m, err := h.Identity.RegisterMerchant(c.Request.Context(), identity.RegisterMerchantInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		ShopName:    req.ShopName,
		ShopAddress: req.ShopAddress,
		Password:    req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			common.Fail(c, http.StatusBadRequest, 10003, "email already registered")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to create account")
		return
	}

	token, err := auth.SignToken(m.ID, auth.RoleMerchant, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.Created(c, gin.H{
		"id":        m.ID,
		"email":     m.Email,
		"name":      m.Name,
		"shop_name": m.ShopName,
		"token":     token,
	})
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) LoginCustomer(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	cust, err := h.Identity.LoginCustomer(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			common.Fail(c, http.StatusUnauthorized, 40103, "invalid email or password")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	token, err := auth.SignToken(cust.ID, auth.RoleCustomer, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}
	common.OK(c, gin.H{"id": cust.ID, "name": cust.DisplayName(), "token": token})
}

func (h *Handler) LoginMerchant(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	m, err := h.Identity.LoginMerchant(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrBadCredentials) {
			common.Fail(c, http.StatusUnauthorized, 40103, "invalid email or password")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}

	token, err := auth.SignToken(m.ID, auth.RoleMerchant, h.Cfg.JWTSecret, h.Cfg.JWTTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}
	common.OK(c, gin.H{"id": m.ID, "name": m.Name, "token": token})
}

// Me returns the authenticated party's profile.
func (h *Handler) Me(c *gin.Context) {
	partyID := c.GetString(middleware.PartyIDKey)
	role := c.GetString(middleware.RoleKey)

	switch role {
	case auth.RoleCustomer:
		cust, err := h.Identity.GetCustomer(c.Request.Context(), partyID)
		if err != nil {
			common.Fail(c, http.StatusNotFound, 40401, "account not found")
			return
		}
		common.OK(c, gin.H{"id": cust.ID, "role": role, "name": cust.DisplayName(), "email": cust.Email})
	case auth.RoleMerchant:
		m, err := h.Identity.GetMerchant(c.Request.Context(), partyID)
		if err != nil {
			common.Fail(c, http.StatusNotFound, 40401, "account not found")
			return
		}
		common.OK(c, gin.H{"id": m.ID, "role": role, "name": m.Name, "email": m.Email, "shop_name": m.ShopName})
	default:
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
	}
}
