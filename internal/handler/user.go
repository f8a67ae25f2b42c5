package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TejaNaik15/ai-interview-coach/internal/repository"
	"github.com/TejaNaik15/ai-interview-coach/pkg"
	"github.com/TejaNaik15/ai-interview-coach/pkg/model"
	"github.com/TejaNaik15/ai-interview-coach/pkg/response"
)

// SignUp creates a new user and returns a token so the client is logged in
// immediately.
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("signup bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		response.InternalError(c, "")
		return
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         req.Role,
		Level:        req.Level,
		Subscription: model.TierFree,
		Credits:      model.DefaultCredits,
		WeeklyGoal:   model.DefaultWeeklyGoal,
	}

	if _, err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			response.Conflict(c, "email already registered")
			return
		}
		h.Logger.Sugar().Errorw("user create failed", "email", req.Email, "err", err)
		response.InternalError(c, "could not create user")
		return
	}

	res, err := h.loginResponse(user)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}
	response.Created(c, res)
}

// Login verifies credentials and returns a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		h.Logger.Sugar().Warnw("login user not found", "email", req.Email, "err", err)
		response.Unauthorized(c, "invalid credentials")
		return
	}
	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		h.Logger.Sugar().Warnw("login password mismatch", "email", req.Email)
		response.Unauthorized(c, "invalid credentials")
		return
	}

	res, err := h.loginResponse(&user)
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}
	response.OK(c, res)
}

func (h *Handler) loginResponse(user *model.User) (model.LoginUserRes, error) {
	accessToken, claims, err := h.TokenMaker.GenerateToken(user.UserID.Hex(), user.Email, h.TokenTTL)
	if err != nil {
		return model.LoginUserRes{}, err
	}
	return model.LoginUserRes{
		AccessToken: accessToken,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user.ToRes(),
	}, nil
}

// Me returns the current user profile.
func (h *Handler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	response.OK(c, user.ToRes())
}

// currentUser loads the authenticated user, writing the error response
// itself when the request is anonymous or the account is gone.
func (h *Handler) currentUser(c *gin.Context) (model.User, bool) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return model.User{}, false
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "")
		return model.User{}, false
	}

	user, err := h.Users.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Unauthorized(c, "")
		return model.User{}, false
	}
	return user, true
}
