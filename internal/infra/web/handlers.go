package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"biolink-saas/internal/domain"
	"biolink-saas/internal/domain/model"
	"biolink-saas/internal/infra/i18n"
	"biolink-saas/internal/infra/logging"
	"biolink-saas/internal/infra/metrics"
	"biolink-saas/internal/usecase"
)

const accountPlanPath = "/account-plan"

type jsonResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type flashView struct {
	Type    string `json:"type"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) translator(r *http.Request) *i18n.Translator {
	return s.bundle.Match(r.Header.Get("Accept-Language"))
}

func (s *Server) renderFlash(f *Flash, tr *i18n.Translator) *flashView {
	if f == nil {
		return nil
	}
	args := make([]any, len(f.Args))
	for i, a := range f.Args {
		args[i] = a
	}
	return &flashView{Type: f.Type, Field: f.Field, Message: tr.T(f.Key, args...)}
}

func userID(r *http.Request) string {
	if c := claimsFrom(r.Context()); c != nil {
		return c.Subject
	}
	return ""
}

// codeErrorKey maps a redemption error to the message shown to the user and
// reports whether it belongs to the code field.
func codeErrorKey(err error) (key string, field bool) {
	switch {
	case errors.Is(err, domain.ErrInvalidCode), errors.Is(err, domain.ErrInvalidPlan):
		return "account_plan.error.code_invalid", true
	case errors.Is(err, domain.ErrAlreadyRedeemed):
		return "account_plan.error.code_used", true
	case errors.Is(err, domain.ErrCodesDisabled):
		return "account_plan.error.codes_disabled", false
	case errors.Is(err, domain.ErrSubscriptionCancellation):
		return "account_plan.error.cancellation", false
	default:
		return "global.error.generic", false
	}
}

func (s *Server) handleAccountPlan(w http.ResponseWriter, r *http.Request) {
	view, err := s.accountUC.AccountPlan(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("load account plan")
		http.Error(w, "Failed to load account plan", http.StatusInternalServerError)
		return
	}
	flash := s.renderFlash(popFlash(w, r), s.translator(r))

	response := struct {
		*usecase.AccountPlan
		CodesEnabled bool       `json:"codes_enabled"`
		Flash        *flashView `json:"flash,omitempty"`
	}{
		AccountPlan:  view,
		CodesEnabled: s.cfg.Payment.CodesActive(),
		Flash:        flash,
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleRedeemCode(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, accountPlanPath, http.StatusSeeOther)
	if !s.cfg.Payment.CodesActive() {
		return
	}
	if err := r.ParseForm(); err != nil {
		setFlash(w, Flash{Type: "error", Key: "global.error.generic"})
		return
	}

	_, err := s.redemptionUC.Redeem(r.Context(), userID(r), r.PostForm.Get("code"))
	if err != nil {
		key, isField := codeErrorKey(err)
		f := Flash{Type: "error", Key: key}
		if isField {
			f.Field = "code"
		}
		setFlash(w, f)
		return
	}
	setFlash(w, Flash{Type: "success", Key: "account_plan.success.code_redeemed"})
}

type checkCodeRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleCheckCode(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Payment.CodesActive() {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	tr := s.translator(r)

	var req checkCodeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, jsonResponse{Status: "error", Message: tr.T("account_plan.error.code_invalid")})
		return
	}

	quote, err := s.redemptionUC.CheckCode(r.Context(), userID(r), req.Code)
	if err != nil {
		key, isField := codeErrorKey(err)
		status := http.StatusOK
		if !isField {
			status = http.StatusInternalServerError
			logging.With(r.Context(), s.log).Error().Err(err).Msg("check code")
		}
		writeJSON(w, status, jsonResponse{Status: "error", Message: tr.T(key)})
		return
	}
	writeJSON(w, http.StatusOK, jsonResponse{
		Status:  "success",
		Message: tr.T("account_plan.success.code", quote.PlanName, quote.Days),
		Data:    map[string]int{"discount": quote.Discount},
	})
}

func (s *Server) redeemLimited(w http.ResponseWriter, r *http.Request) {
	setFlash(w, Flash{Type: "error", Field: "code", Key: "global.error.too_many_requests"})
	http.Redirect(w, r, accountPlanPath, http.StatusSeeOther)
}

func (s *Server) checkLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, jsonResponse{Status: "error", Message: s.translator(r).T("global.error.too_many_requests")})
}

func (s *Server) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, accountPlanPath, http.StatusSeeOther)
	if err := s.subUC.CancelSubscription(r.Context(), userID(r)); err != nil {
		setFlash(w, Flash{Type: "error", Key: "account_plan.error.cancellation"})
		return
	}
	setFlash(w, Flash{Type: "success", Key: "account_plan.success.subscription_canceled"})
}

func (s *Server) handleBiolinkBlocks(w http.ResponseWriter, r *http.Request) {
	blocks, err := s.biolinkUC.ListBlocks(r.Context(), userID(r), r.URL.Query().Get("search"), r.Header.Get("Accept-Language"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logging.With(r.Context(), s.log).Error().Err(err).Msg("list biolink blocks")
		http.Error(w, "Failed to list blocks", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Data []usecase.BlockView `json:"data"`
	}{Data: blocks})
}

type taxView struct {
	ID           string    `json:"id"`
	InternalName string    `json:"internal_name"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Value        int       `json:"value"`
	ValueType    string    `json:"value_type"`
	Type         string    `json:"type"`
	BillingType  string    `json:"billing_type"`
	Countries    []string  `json:"countries"`
	CreatedAt    time.Time `json:"created_at"`
}

func toTaxView(t *model.Tax) taxView {
	return taxView{
		ID:           t.ID,
		InternalName: t.InternalName,
		Name:         t.Name,
		Description:  t.Description,
		Value:        t.Value,
		ValueType:    string(t.ValueType),
		Type:         string(t.Type),
		BillingType:  string(t.BillingType),
		Countries:    t.Countries,
		CreatedAt:    t.CreatedAt,
	}
}

func (s *Server) handleTaxList(w http.ResponseWriter, r *http.Request) {
	taxes, err := s.taxUC.List(r.Context())
	if err != nil {
		logging.With(r.Context(), s.log).Error().Err(err).Msg("list taxes")
		http.Error(w, "Failed to list taxes", http.StatusInternalServerError)
		return
	}
	out := make([]taxView, 0, len(taxes))
	for _, t := range taxes {
		out = append(out, toTaxView(t))
	}
	writeJSON(w, http.StatusOK, struct {
		Data  []taxView  `json:"data"`
		Flash *flashView `json:"flash,omitempty"`
	}{Data: out, Flash: s.renderFlash(popFlash(w, r), s.translator(r))})
}

func (s *Server) handleTaxCreate(w http.ResponseWriter, r *http.Request) {
	defer http.Redirect(w, r, "/admin/taxes", http.StatusSeeOther)
	if err := r.ParseForm(); err != nil {
		metrics.IncAdminAction("tax_create", "invalid")
		setFlash(w, Flash{Type: "error", Key: "admin.taxes.error.invalid"})
		return
	}
	value, err := parseTaxValue(r.PostForm.Get("value"))
	if err != nil {
		metrics.IncAdminAction("tax_create", "invalid")
		setFlash(w, Flash{Type: "error", Key: "admin.taxes.error.invalid"})
		return
	}
	in := usecase.TaxInput{
		InternalName: r.PostForm.Get("internal_name"),
		Name:         r.PostForm.Get("name"),
		Description:  r.PostForm.Get("description"),
		Value:        value,
		ValueType:    r.PostForm.Get("value_type"),
		Type:         r.PostForm.Get("type"),
		BillingType:  r.PostForm.Get("billing_type"),
		Countries:    r.PostForm["countries"],
	}

	tax, err := s.taxUC.Create(r.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			metrics.IncAdminAction("tax_create", "invalid")
			setFlash(w, Flash{Type: "error", Key: "admin.taxes.error.invalid"})
			return
		}
		metrics.IncAdminAction("tax_create", "error")
		logging.With(r.Context(), s.log).Error().Err(err).Msg("create tax")
		setFlash(w, Flash{Type: "error", Key: "global.error.generic"})
		return
	}
	metrics.IncAdminAction("tax_create", "ok")
	setFlash(w, Flash{Type: "success", Key: "admin.taxes.success.create", Args: []string{tax.Name}})
}

// parseTaxValue accepts an optional whole number. An empty field is zero.
func parseTaxValue(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: tax value %q is not a whole number", domain.ErrInvalidArgument, raw)
	}
	return v, nil
}
