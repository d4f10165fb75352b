package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Bidon15/piedpiper/internal/middleware"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/pkg/response"
	"github.com/Bidon15/piedpiper/internal/service"
)

// sniffLen is how much of an upload http.DetectContentType looks at.
const sniffLen = 512

// RestrictedHandler serves the endpoints behind the auth gate. Every
// method expects middleware.SessionAuth to have run.
type RestrictedHandler struct {
	profileService service.ProfileService
	statsService   service.StatsService
	clientService  service.ClientService
	ticketService  service.TicketService
	maxUploadBytes int64
	validate       *validator.Validate
	logger         *slog.Logger
}

// NewRestrictedHandler creates a new restricted handler.
func NewRestrictedHandler(
	profileService service.ProfileService,
	statsService service.StatsService,
	clientService service.ClientService,
	ticketService service.TicketService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *RestrictedHandler {
	return &RestrictedHandler{
		profileService: profileService,
		statsService:   statsService,
		clientService:  clientService,
		ticketService:  ticketService,
		maxUploadBytes: maxUploadBytes,
		validate:       newValidator(),
		logger:         logger,
	}
}

// AuthCheck handles GET /authcheck
func (h *RestrictedHandler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]bool{"success": true})
}

// GetStats handles POST /getstats
func (h *RestrictedHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Stats(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.OK(w, stats)
}

// GetProfile handles POST /getprofile
func (h *RestrictedHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if session == nil {
		response.Error(w, apierrors.ErrUnauthenticated)
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), session)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.OK(w, profile)
}

// SaveProfile handles POST /saveprofile
func (h *RestrictedHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	rc := middleware.GetRequestContext(r.Context())
	if rc.Token == "" {
		response.Error(w, apierrors.ErrUnauthenticated)
		return
	}

	var req service.SaveProfileRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	profile, err := h.profileService.SaveProfile(r.Context(), rc.Token, req.Fields())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.OK(w, profile)
}

// UploadImage handles POST /uploadimage with a multipart "file" part and
// an optional "filename" field.
func (h *RestrictedHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		response.Error(w, apierrors.ErrPayloadTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, apierrors.ErrPayloadTooLarge)
			return
		}
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, apierrors.NewValidationError("file", "File field is required"))
		return
	}
	defer file.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		writeError(h.logger, w, r, err)
		return
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(w, apierrors.NewValidationError("file", "File must be an image"))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	stored, err := h.profileService.UploadImage(r.Context(), r.FormValue("filename"), file, header.Size, contentType)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.OK(w, map[string]string{"file": stored})
}

// GetClients handles POST /getclients
func (h *RestrictedHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.List(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.OK(w, map[string]any{"clients": clients})
}

// AddClient handles POST /addclient
func (h *RestrictedHandler) AddClient(w http.ResponseWriter, r *http.Request) {
	var req service.CreateClientRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	client, err := h.clientService.Create(r.Context(), req)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.OK(w, client)
}

// CreateTicket handles POST /createticket
func (h *RestrictedHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTicketRequest
	if err := decodeJSON(r, h.validate, &req); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	msg := h.ticketService.Create(r.Context(), req)
	response.OK(w, map[string]any{"msg": msg})
}
