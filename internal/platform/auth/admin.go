package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminHandler exposes the admin login endpoint. Admin credentials are
// configured through the environment rather than stored in the database.
type AdminHandler struct {
	email    string
	password string
	issuer   *Issuer
}

func NewAdminHandler(email, password string, issuer *Issuer) *AdminHandler {
	return &AdminHandler{
		email:    email,
		password: password,
		issuer:   issuer,
	}
}

func (h *AdminHandler) Register(g *echo.Group) {
	g.POST("/login", h.Login)
}

type adminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AdminHandler) Login(c echo.Context) error {
	var req adminLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(h.email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !emailOK || !passOK {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.issuer.Mint(h.email, "admin")
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue token")
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}
