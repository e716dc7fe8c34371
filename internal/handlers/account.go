package handlers

import (
	"errors"
	"net/http"

	dom "Social/internal/domain"
	"Social/internal/dto"
	"Social/internal/service"

	"github.com/gin-gonic/gin"
)

// AccountHandler handles registration and login.
type AccountHandler struct {
	svc          *service.AccountService
	echoPassword bool
}

// NewAccountHandler returns a new AccountHandler. echoPassword controls
// whether the password is included in responses.
func NewAccountHandler(svc *service.AccountService, echoPassword bool) *AccountHandler {
	return &AccountHandler{svc: svc, echoPassword: echoPassword}
}

// Register godoc
// @Summary      Register an account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AccountRequest  true  "Credentials"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /register [post]
func (h *AccountHandler) Register(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	a, err := h.svc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(a))
}

// Login godoc
// @Summary      Log in
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AccountRequest  true  "Credentials"
// @Success      200   {object}  dto.AccountResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /login [post]
func (h *AccountHandler) Login(c *gin.Context) {
	var req dto.AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	a, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(a))
}

func (h *AccountHandler) toResponse(a dom.Account) dto.AccountResponse {
	resp := dto.AccountResponse{AccountID: a.ID, Username: a.Username}
	if h.echoPassword {
		resp.Password = a.Password
	}
	return resp
}
