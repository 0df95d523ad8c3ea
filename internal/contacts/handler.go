package contacts

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/contact-crm/internal/http/respond"
	"github.com/wolfman30/contact-crm/pkg/logging"
)

const defaultFormMemory = 10 << 20

// Handler handles HTTP requests for contacts
type Handler struct {
	svc        *Service
	logger     *logging.Logger
	formMemory int64
}

// NewHandler creates a new contacts handler. formMemory bounds multipart
// parsing and update bodies; zero selects 10 MiB.
func NewHandler(svc *Service, logger *logging.Logger, formMemory int64) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if formMemory <= 0 {
		formMemory = defaultFormMemory
	}
	return &Handler{svc: svc, logger: logger, formMemory: formMemory}
}

// StatusResponse is the body of successful mutations.
type StatusResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	DeletedCount *int64 `json:"deleted_count,omitempty"`
}

// Submit handles POST /submit form submissions
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.formMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Warn("failed to parse submit form", "error", err)
		respond.Error(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	req := SubmitRequest{
		CompanyName:    r.PostFormValue("company_name"),
		Name:           r.PostFormValue("name"),
		Designation:    r.PostFormValue("designation"),
		Mobile:         r.PostFormValue("mobile"),
		Mobile2:        r.PostFormValue("mobile2"),
		Landline:       r.PostFormValue("landline"),
		Email:          r.PostFormValue("email"),
		Email2:         r.PostFormValue("email2"),
		LinkedIn:       r.PostFormValue("linkedin"),
		Address:        r.PostFormValue("address"),
		ExistingClient: r.PostFormValue("existing_client"),
		PartnerName:    r.PostFormValue("partner_name"),
		CallDate:       r.PostFormValue("call_date"),
		LeadEntryDate:  r.PostFormValue("lead_entry_date"),
		Comments:       r.PostFormValue("comments"),
		Disposition:    r.PostFormValue("disposition"),
	}

	contact, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.fail(w, err, "error saving contact", "Server error while saving contact")
		return
	}

	h.logger.Info("contact saved", "id", contact.ID.Hex(), "company", contact.CompanyName)
	respond.JSON(w, http.StatusOK, StatusResponse{Status: "success", Message: "Contact saved successfully"})
}

// History handles GET /get_history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "page must be an integer")
		return
	}
	limit, err := intParam(q.Get("limit"), DefaultLimit)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "limit must be an integer")
		return
	}

	filter := Filter{
		Search:      q.Get("search"),
		Company:     q.Get("company"),
		Phone:       q.Get("phone"),
		Disposition: q.Get("disposition"),
		CallStart:   q.Get("call_start"),
		CallEnd:     q.Get("call_end"),
		LeadStart:   q.Get("lead_start"),
		LeadEnd:     q.Get("lead_end"),
		Start:       q.Get("start"),
		End:         q.Get("end"),
	}

	result, err := h.svc.List(r.Context(), filter, page, limit)
	if err != nil {
		h.fail(w, err, "failed to list contacts", "Server error")
		return
	}
	respond.JSON(w, http.StatusOK, result)
}

// Get handles GET /get_contact/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "failed to get contact", "Server error")
		return
	}
	respond.JSON(w, http.StatusOK, contact)
}

// Update handles PATCH /update/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.formMemory))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	patch, err := ParsePatch(body)
	if err != nil {
		h.fail(w, err, "invalid update body", "Invalid request body")
		return
	}

	if err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), patch); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			respond.Error(w, http.StatusNotFound, "Contact not found or no changes made")
			return
		}
		h.fail(w, err, "failed to update contact", "Server error")
		return
	}
	respond.JSON(w, http.StatusOK, StatusResponse{Status: "success", Message: "Contact updated"})
}

// Delete handles DELETE /delete/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err, "failed to delete contact", "Error deleting contact")
		return
	}
	respond.JSON(w, http.StatusOK, StatusResponse{
		Status:       "success",
		Message:      "Contact deleted successfully",
		DeletedCount: &n,
	})
}

// Export handles GET /export_excel
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	file, err := h.svc.Export(r.Context())
	if err != nil {
		h.fail(w, err, "export failed", "Excel export failed")
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}

// fail maps service errors to status codes; anything unexpected is logged
// and answered with serverMsg.
func (h *Handler) fail(w http.ResponseWriter, err error, logMsg, serverMsg string) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		respond.Error(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, ErrInvalidID):
		respond.Error(w, http.StatusBadRequest, "Invalid ID")
	case errors.Is(err, ErrContactNotFound):
		respond.Error(w, http.StatusNotFound, "Contact not found")
	default:
		h.logger.Error(logMsg, "error", err)
		respond.Error(w, http.StatusInternalServerError, serverMsg)
	}
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
