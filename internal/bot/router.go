package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mkopaniuk/city-news/internal/metrics"
	"github.com/mkopaniuk/city-news/internal/models"
	"github.com/mkopaniuk/city-news/internal/repository"
	"github.com/mkopaniuk/city-news/internal/state"
)

const (
	msgWelcome       = "Привіт! Я NewsBot. Доступні команди:\n/start\n/choosecity\n/news"
	msgAskMainCity   = "Напишіть назву вашого основного міста:"
	msgUnknownCity   = "Такого міста немає в базі. Спробуйте ще раз."
	msgCitySaved     = "Місто '%s' успішно встановлено!"
	msgCitySaveError = "Помилка при збереженні міста. Спробуйте ще раз."
	msgPickOption    = "Виберіть опцію для новин:"
	msgAskSearchCity = "Напишіть назву міста для новин:"
	msgNoNews        = "Новин за '%s' не знайдено 😕"
	msgArticle       = "📰 <b>%s</b>\n%s"
	msgDone          = "Операція завершена"
)

// queryAllCountry is the country-wide news query, offered next to the
// user's saved city.
const queryAllCountry = "Україна"

type newsFetcher interface {
	Search(ctx context.Context, query string) []models.Article
}

type preferences interface {
	Upsert(ctx context.Context, userID int64, city string) error
	GetCity(ctx context.Context, userID int64) (string, error)
}

type cityValidator interface {
	Normalize(s string) string
	IsValid(s string) bool
}

// Router is the per-user conversation state machine. Each incoming
// message is routed by command first, then by the user's current
// conversation state.
type Router struct {
	sender Sender
	states state.Store
	prefs  preferences
	news   newsFetcher
	cities cityValidator
	logger *log.Logger
	m      *metrics.Metrics
}

func NewRouter(
	sender Sender,
	states state.Store,
	prefs preferences,
	news newsFetcher,
	cities cityValidator,
	logger *log.Logger,
	m *metrics.Metrics,
) *Router {
	return &Router{
		sender: sender,
		states: states,
		prefs:  prefs,
		news:   news,
		cities: cities,
		logger: logger,
		m:      m,
	}
}

// HandleMessage dispatches one inbound message. It never returns an
// error: every failure path ends in a message to the user (or a log
// line) so the polling loop keeps serving other users.
func (r *Router) HandleMessage(ctx context.Context, userID int64, text string) {
	trimmed := strings.TrimSpace(text)

	// Commands and their buttons win over any open prompt: "/news"
	// typed at a city prompt starts the news flow, it is never
	// treated as a city name.
	switch {
	case trimmed == "/start":
		r.m.BotUpdatesTotal.WithLabelValues("start").Inc()
		r.handleStart(ctx, userID)
	case trimmed == "/choosecity" || strings.EqualFold(trimmed, BtnChooseCity):
		r.m.BotUpdatesTotal.WithLabelValues("choose_city").Inc()
		r.handleChooseCity(ctx, userID)
	case trimmed == "/news" || strings.EqualFold(trimmed, BtnNews):
		r.m.BotUpdatesTotal.WithLabelValues("news").Inc()
		r.handleNews(ctx, userID)
	default:
		r.dispatchByState(ctx, userID, trimmed)
	}
}

func (r *Router) dispatchByState(ctx context.Context, userID int64, text string) {
	current, err := r.states.Get(ctx, userID)
	if err != nil {
		r.logger.Printf("failed to read conversation state for %d: %v", userID, err)
		current = state.Idle
	}

	switch current {
	case state.AwaitingMainCity:
		r.m.BotUpdatesTotal.WithLabelValues("set_main_city").Inc()
		r.handleMainCityInput(ctx, userID, text)
	case state.AwaitingNewsOption:
		r.m.BotUpdatesTotal.WithLabelValues("news_option").Inc()
		r.handleNewsOption(ctx, userID, text)
	case state.AwaitingSearchCity:
		r.m.BotUpdatesTotal.WithLabelValues("search_city").Inc()
		r.handleSearchCityInput(ctx, userID, text)
	default:
		// No command and no conversation in flight.
		r.m.BotUpdatesTotal.WithLabelValues("ignored").Inc()
	}
}

func (r *Router) handleStart(ctx context.Context, userID int64) {
	r.send(ctx, userID, Reply{Text: msgWelcome, Keyboard: mainKeyboard()})
}

func (r *Router) handleChooseCity(ctx context.Context, userID int64) {
	r.setState(ctx, userID, state.AwaitingMainCity)
	r.send(ctx, userID, Reply{Text: msgAskMainCity, Keyboard: removeKeyboard()})
}

// handleMainCityInput stores the main city. The state survives an
// invalid city (re-prompt) and is cleared on every other outcome.
func (r *Router) handleMainCityInput(ctx context.Context, userID int64, text string) {
	city := r.cities.Normalize(text)
	if !r.cities.IsValid(city) {
		r.send(ctx, userID, Reply{Text: msgUnknownCity})
		return
	}

	if err := r.prefs.Upsert(ctx, userID, city); err != nil {
		r.logger.Printf("failed to store city for %d: %v", userID, err)
		r.send(ctx, userID, Reply{Text: msgCitySaveError, Keyboard: mainKeyboard()})
	} else {
		r.m.PreferenceUpserts.Inc()
		r.send(ctx, userID, Reply{
			Text:     fmt.Sprintf(msgCitySaved, city),
			Keyboard: mainKeyboard(),
		})
	}
	r.clearState(ctx, userID)
}

func (r *Router) handleNews(ctx context.Context, userID int64) {
	r.setState(ctx, userID, state.AwaitingNewsOption)
	r.send(ctx, userID, Reply{
		Text:     msgPickOption,
		Keyboard: newsKeyboard(r.savedCity(ctx, userID)),
		OneTime:  true,
	})
}

func (r *Router) handleNewsOption(ctx context.Context, userID int64, text string) {
	savedCity := r.savedCity(ctx, userID)

	if text == BtnSearchCity {
		r.setState(ctx, userID, state.AwaitingSearchCity)
		r.send(ctx, userID, Reply{Text: msgAskSearchCity, Keyboard: removeKeyboard()})
		return
	}

	var query string
	switch {
	case text == queryAllCountry || text == BtnAllCountry:
		query = queryAllCountry
	case savedCity != "" && text == savedCity:
		query = savedCity
	default:
		r.send(ctx, userID, Reply{Text: unknownOptionMessage(savedCity)})
		r.clearState(ctx, userID)
		return
	}

	r.sendNews(ctx, userID, query)
}

func (r *Router) handleSearchCityInput(ctx context.Context, userID int64, text string) {
	city := r.cities.Normalize(text)
	if !r.cities.IsValid(city) {
		r.send(ctx, userID, Reply{Text: msgUnknownCity})
		return
	}
	r.sendNews(ctx, userID, city)
}

// sendNews is the shared terminal transition: fetch, display, clear
// state, restore the main keyboard.
func (r *Router) sendNews(ctx context.Context, userID int64, query string) {
	articles := r.news.Search(ctx, query)
	if len(articles) == 0 {
		r.send(ctx, userID, Reply{Text: fmt.Sprintf(msgNoNews, query)})
	} else {
		for _, article := range articles {
			r.send(ctx, userID, Reply{
				Text: fmt.Sprintf(msgArticle, article.Title, article.URL),
				HTML: true,
			})
		}
	}

	r.clearState(ctx, userID)
	r.send(ctx, userID, Reply{Text: msgDone, Keyboard: mainKeyboard()})
}

// savedCity reads the stored preference; any lookup failure is logged
// and treated as "no preference".
func (r *Router) savedCity(ctx context.Context, userID int64) string {
	city, err := r.prefs.GetCity(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNoPreference) {
			r.logger.Printf("failed to read city for %d: %v", userID, err)
		}
		return ""
	}
	return city
}

func unknownOptionMessage(savedCity string) string {
	if savedCity == "" {
		return fmt.Sprintf("Невідомий варіант. Спробуйте '%s'.", BtnAllCountry)
	}
	return fmt.Sprintf("Невідомий варіант. Спробуйте '%s' або '%s'.", savedCity, BtnAllCountry)
}

func (r *Router) send(ctx context.Context, userID int64, reply Reply) {
	if err := r.sender.Send(ctx, userID, reply); err != nil {
		r.logger.Printf("failed to reply to %d: %v", userID, err)
	}
}

func (r *Router) setState(ctx context.Context, userID int64, c state.Conversation) {
	if err := r.states.Set(ctx, userID, c); err != nil {
		r.logger.Printf("failed to set state %s for %d: %v", c, userID, err)
	}
}

func (r *Router) clearState(ctx context.Context, userID int64) {
	if err := r.states.Clear(ctx, userID); err != nil {
		r.logger.Printf("failed to clear state for %d: %v", userID, err)
	}
}
