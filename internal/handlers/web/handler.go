package web

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/mkopaniuk/city-news/internal/metrics"
	"github.com/mkopaniuk/city-news/internal/models"
	"github.com/mkopaniuk/city-news/internal/services/auth"
)

const (
	sessionUserID    = "user_id"
	sessionFirstName = "first_name"
)

// homeQuery is the fixed country-wide query for the public listing.
const homeQuery = "Україна"

type newsProvider interface {
	Search(ctx context.Context, query string) []models.Article
}

type authenticator interface {
	Register(ctx context.Context, data models.RegisterData) error
	Login(ctx context.Context, email, password string) (models.User, error)
	Profile(ctx context.Context, id int64) (models.User, error)
}

type Handler struct {
	auth   authenticator
	news   newsProvider
	logger *log.Logger
	m      *metrics.Metrics
}

func NewHandler(authService authenticator, news newsProvider, logger *log.Logger, m *metrics.Metrics) *Handler {
	return &Handler{auth: authService, news: news, logger: logger, m: m}
}

func (h *Handler) Home(c *gin.Context) {
	articles := h.news.Search(c.Request.Context(), homeQuery)
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Articles":  articles,
		"FirstName": sessions.Default(c).Get(sessionFirstName),
		"Flashes":   takeFlashes(c),
	})
}

func (h *Handler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{"Flashes": takeFlashes(c)})
}

func (h *Handler) Register(c *gin.Context) {
	var data models.RegisterData
	if err := c.ShouldBind(&data); err != nil {
		flashAndRedirect(c, "Будь ласка, заповніть всі поля", "/register")
		return
	}

	err := h.auth.Register(c.Request.Context(), data)
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		flashAndRedirect(c, "Будь ласка, заповніть всі поля", "/register")
	case errors.Is(err, auth.ErrEmailTaken):
		flashAndRedirect(c, "Email вже зареєстрований", "/register")
	case err != nil:
		h.logger.Printf("failed to register %s: %v", data.Email, err)
		flashAndRedirect(c, "Помилка реєстрації. Спробуйте ще раз.", "/register")
	default:
		h.m.UsersRegistered.Inc()
		flashAndRedirect(c, "Реєстрація успішна! Тепер увійдіть", "/login")
	}
}

func (h *Handler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{"Flashes": takeFlashes(c)})
}

func (h *Handler) Login(c *gin.Context) {
	var data models.LoginData
	if err := c.ShouldBind(&data); err != nil {
		flashAndRedirect(c, "Будь ласка, введіть email та пароль", "/login")
		return
	}

	user, err := h.auth.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		// Same message for unknown email and wrong password.
		flashAndRedirect(c, "Неправильний email або пароль", "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionFirstName, user.FirstName)
	session.AddFlash("Ласкаво просимо, " + user.FirstName + "!")
	if err := session.Save(); err != nil {
		h.logger.Printf("failed to save session: %v", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Redirect(http.StatusFound, "/profile")
}

func (h *Handler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.AddFlash("Ви вийшли з акаунту")
	if err := session.Save(); err != nil {
		h.logger.Printf("failed to save session: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Profile(c *gin.Context) {
	userID, ok := sessions.Default(c).Get(sessionUserID).(int64)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		h.logger.Printf("failed to load profile %d: %v", userID, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"User":    user,
		"Flashes": takeFlashes(c),
	})
}

// RequireAuth gates a route on an active session.
func RequireAuth(c *gin.Context) {
	if sessions.Default(c).Get(sessionUserID) == nil {
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}
	c.Next()
}

func flashAndRedirect(c *gin.Context, message, location string) {
	session := sessions.Default(c)
	session.AddFlash(message)
	_ = session.Save()
	c.Redirect(http.StatusFound, location)
}

// takeFlashes drains pending flash messages; gorilla sessions require
// a save after reading to actually consume them.
func takeFlashes(c *gin.Context) []string {
	session := sessions.Default(c)
	raw := session.Flashes()
	if len(raw) > 0 {
		_ = session.Save()
	}
	messages := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			messages = append(messages, s)
		}
	}
	return messages
}
