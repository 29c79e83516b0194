// Package user implements the own-profile editing surface. The target of
// every operation here is the requesting user; no identifier is taken from
// the URL.
package user

import (
	"errors"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/middleware"
	"github.com/quillspace/core/internal/models"
	"github.com/quillspace/core/internal/pkg/response"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

var (
	errUsernameTaken   = errors.New("username already taken")
	errUsernameInvalid = errors.New("invalid username")
	errWrongPassword   = errors.New("wrong password")
)

// ProfileEditDTO is the own-profile form payload.
type ProfileEditDTO struct {
	Username  *string `json:"username"  form:"username"`
	Name      *string `json:"name"      form:"name"`
	Mail      *string `json:"mail"      form:"mail"`
	Avatar    *string `json:"avatar"    form:"avatar"`
	Introduce *string `json:"introduce" form:"introduce"`
}

type ChangePasswordDTO struct {
	OldPassword string `json:"old_password" form:"old_password" binding:"required"`
	NewPassword string `json:"new_password" form:"new_password" binding:"required,min=6"`
}

type profileResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Mail      string `json:"mail"`
	Avatar    string `json:"avatar"`
	Introduce string `json:"introduce"`
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UpdateProfile patches the user's own profile fields.
func (s *Service) UpdateProfile(userID string, dto *ProfileEditDTO) (*models.UserModel, error) {
	u, err := s.GetByID(userID)
	if err != nil || u == nil {
		return u, err
	}

	updates := map[string]interface{}{}
	if dto.Username != nil && *dto.Username != u.Username {
		if !usernamePattern.MatchString(*dto.Username) {
			return nil, errUsernameInvalid
		}
		var count int64
		s.db.Model(&models.UserModel{}).Where("username = ?", *dto.Username).Count(&count)
		if count > 0 {
			return nil, errUsernameTaken
		}
		updates["username"] = *dto.Username
	}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Mail != nil {
		updates["mail"] = *dto.Mail
	}
	if dto.Avatar != nil {
		updates["avatar"] = *dto.Avatar
	}
	if dto.Introduce != nil {
		updates["introduce"] = *dto.Introduce
	}

	if len(updates) > 0 {
		if err := s.db.Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(userID)
}

// ChangePassword verifies the old password before replacing it.
func (s *Service) ChangePassword(userID string, dto *ChangePasswordDTO) error {
	u, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if u == nil {
		return gorm.ErrRecordNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(dto.OldPassword)); err != nil {
		return errWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(u).Update("password", string(hash)).Error
}

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(r *gin.Engine, requireLogin gin.HandlerFunc) {
	g := r.Group("/edit_profile", requireLogin)
	g.GET("/", h.editForm)
	g.POST("/", h.update)
	g.POST("/password/", h.changePassword)
}

// editForm GET /edit_profile/  [auth]
func (h *Handler) editForm(c *gin.Context) {
	u, err := h.svc.GetByID(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, gin.H{"form": toProfileResponse(u)})
}

// update POST /edit_profile/  [auth]
func (h *Handler) update(c *gin.Context) {
	var dto ProfileEditDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}

	u, err := h.svc.UpdateProfile(middleware.CurrentUserID(c), &dto)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			response.Conflict(c, err.Error())
			return
		}
		if errors.Is(err, errUsernameInvalid) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	if u == nil {
		response.NotFound(c)
		return
	}
	response.Redirect(c, "/profile/"+u.Username+"/")
}

// changePassword POST /edit_profile/password/  [auth]
func (h *Handler) changePassword(c *gin.Context) {
	var dto ChangePasswordDTO
	if err := c.ShouldBind(&dto); err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	if err := h.svc.ChangePassword(middleware.CurrentUserID(c), &dto); err != nil {
		if errors.Is(err, errWrongPassword) {
			response.ForbiddenMsg(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

func toProfileResponse(u *models.UserModel) profileResponse {
	return profileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Mail:      u.Mail,
		Avatar:    u.Avatar,
		Introduce: u.Introduce,
	}
}
