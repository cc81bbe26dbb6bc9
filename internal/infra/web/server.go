package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"telegram-tempmail-bot/internal/infra/logging"
)

// statusText answers anything that is not a webhook POST; the hosting
// platform and uptime checks hit the root with GET.
const statusText = "Telegram bot is running with webhook!"

// UpdateHandler is what the server needs from the dispatcher.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update) error
}

// Server is the webhook entry point: POST / carries a Telegram update
// envelope; everything else gets the static status text.
type Server struct {
	dispatcher UpdateHandler
	log        *zerolog.Logger
	server     *http.Server
}

func NewServer(dispatcher UpdateHandler, logger *zerolog.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		log:        logger,
	}
}

// Router builds the chi router. Split from Start so tests can drive
// the handlers without a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", s.handleWebhook)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(s.handleStatus)
	r.MethodNotAllowed(s.handleStatus)
	return r
}

func (s *Server) Start(port int) error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.Router(),
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("webhook server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := logging.WithTraceID(r.Context(), uuid.NewString())

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.log.Error().Err(err).Msg("could not decode update payload")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Error"))
		return
	}

	if err := s.dispatcher.HandleUpdate(ctx, update); err != nil {
		s.log.Error().Err(err).Msg("update handling failed")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Error"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(statusText))
}
