package tallyhttp

import (
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/goccy/go-json"

	tally "github.com/tallylabs/tally"
)

type HandlerOption[T any] func(service *httpService[T])

func Logger[T any](log *zerolog.Logger) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.log = log
	}
}

// StatusMapper installs a domain error to HTTP status mapping. A mapping that
// returns 0 falls through to the defaults.
func StatusMapper[T any](mapper func(error) int) HandlerOption[T] {
	return func(service *httpService[T]) {
		service.status = mapper
	}
}

func NewHandler[T any](entityService tally.EntityService[T], options ...HandlerOption[T]) http.Handler {
	service := &httpService[T]{controller: entityService, encoder: tally.NewResourceEncoder[T]()}
	for _, option := range options {
		option(service)
	}
	if service.log == nil {
		service.log = &log.Logger
	}

	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(ResolveCaller)

	r.Method("GET", "/{type}/{key}", service.getResource())
	r.Method("POST", "/{type}/{key}", service.executeCommand())

	return otelhttp.NewHandler(r, "tally-http")
}

type httpService[T any] struct {
	log        *zerolog.Logger
	controller tally.EntityService[T]
	encoder    tally.EntityEncoder[T]
	status     func(error) int
}

func (service *httpService[T]) errorStatus(err error) int {
	if service.status != nil {
		if status := service.status(err); status != 0 {
			return status
		}
	}

	switch err.(type) {
	case tally.CommandNotFoundError:
		return http.StatusBadRequest
	}

	if err == tally.RevisionConflict {
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

func (service *httpService[T]) getResource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := chi.URLParam(r, "type")
		key := chi.URLParam(r, "key")

		entity, err := service.controller.Load(r.Context(), tally.AggregateId{Type: t, Key: key})
		if err != nil {
			service.log.Info().Err(err).Str("type", t).Str("key", key).Msg("failed to load resource")
			http.Error(w, "failed to load resource", http.StatusInternalServerError)
			return
		}

		if !entity.Initialized() {
			http.NotFound(w, r)
			return
		}

		service.encoder.Encode(w, r, &entity)
	}
}

func (service *httpService[T]) executeCommand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t := chi.URLParam(r, "type")
		key := chi.URLParam(r, "key")

		contentType := r.Header.Get("Content-type")
		mediaType, _, err := mime.ParseMediaType(contentType)
		if mediaType != "application/json" || err != nil {
			http.Error(w, "unsupported content type", http.StatusUnsupportedMediaType)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		var command tally.RemoteCommand
		if err := json.UnmarshalContext(r.Context(), body, &command); err != nil {
			service.log.Info().Err(err).Msg("failed to unmarshal command")
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		entity, err := service.controller.Execute(r.Context(), tally.AggregateId{Type: t, Key: key}, command)
		if err != nil {
			status := service.errorStatus(err)
			service.log.Info().Err(err).Str("command", string(command.CommandName)).Int("status", status).Msg("failed to execute command")
			http.Error(w, err.Error(), status)
			return
		}

		if !entity.Initialized() {
			http.NotFound(w, r)
			return
		}

		service.encoder.Encode(w, r, &entity)
	}
}
