package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tidepool-org/prescription-wizard/auth"
	"github.com/tidepool-org/prescription-wizard/devices"
	"github.com/tidepool-org/prescription-wizard/prescription"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
	"github.com/tidepool-org/prescription-wizard/review"
	"github.com/tidepool-org/prescription-wizard/wizard"
)

const newPrescriptionPath = "/prescriptions/new"

type Handlers struct {
	sessions *wizard.Sessions
	devices  devices.Source
	service  prescriptions.Service
	logger   *zap.SugaredLogger
}

func NewHandlers(p HandlersParams) *Handlers {
	return &Handlers{
		sessions: p.Sessions,
		devices:  p.Devices,
		service:  p.Service,
		logger:   p.Logger,
	}
}

func (h *Handlers) Register(g *echo.Group) {
	g.POST("/clinics/:clinicId/prescription-sessions", h.StartSession)
	g.GET("/prescription-sessions/:sessionId", h.GetSession)
	g.DELETE("/prescription-sessions/:sessionId", h.CloseSession)
	g.PUT("/prescription-sessions/:sessionId/values", h.SetValues)
	g.POST("/prescription-sessions/:sessionId/jump", h.Jump)
	g.POST("/prescription-sessions/:sessionId/advance", h.Advance)
	g.POST("/prescription-sessions/:sessionId/complete-edit", h.CompleteEdit)
	g.POST("/prescription-sessions/:sessionId/submit", h.Submit)
	g.GET("/prescription-sessions/:sessionId/review", h.Review)
}

type StartSessionRequest struct {
	PrescriptionId string `json:"prescriptionId,omitempty"`
	Step           string `json:"step,omitempty"`
}

func (h *Handlers) StartSession(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := auth.IdentityFrom(c)
	token := auth.TokenFrom(c)
	clinicId := c.Param("clinicId")
	if !identity.IsMember(clinicId) {
		return echo.NewHTTPError(http.StatusForbidden, "not a member of the clinic")
	}

	request := StartSessionRequest{}
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}

	var catalogue *devices.Catalogue
	var existing *prescription.Prescription
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		catalogue, err = h.devices.Catalogue(egCtx)
		return err
	})
	if request.PrescriptionId != "" {
		eg.Go(func() (err error) {
			existing, err = h.service.GetPrescription(egCtx, token, clinicId, request.PrescriptionId)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		h.logger.Errorw("unable to start wizard session", "clinicId", clinicId, "prescriptionId", request.PrescriptionId, zap.Error(err))
		return httpError(err)
	}

	path := newPrescriptionPath
	if existing != nil {
		path = wizard.PrescriptionPath(existing.Id)
	}
	query := map[string]string{}
	if request.Step != "" {
		query[wizard.StepQueryParam] = request.Step
	}

	session, err := h.sessions.Start(ctx, wizard.Options{
		UserId:       identity.UserId,
		ClinicId:     clinicId,
		Token:        token,
		IsPrescriber: identity.IsPrescriber(clinicId),
		Prescription: existing,
		Catalogue:    *catalogue,
	}, wizard.NewMemoryRouter(path, query))
	if err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusCreated, session)
}

func (h *Handlers) GetSession(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, session)
}

func (h *Handlers) CloseSession(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Close(session.Id()); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handlers) SetValues(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	values := prescription.Draft{}
	if err := c.Bind(&values); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid prescription values").SetInternal(err)
	}
	if err := session.SetValues(c.Request().Context(), values); err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, session)
}

type JumpRequest struct {
	Target   wizard.Position  `json:"target"`
	ReturnTo *wizard.Position `json:"returnTo,omitempty"`
	Focus    string           `json:"focus,omitempty"`
}

func (h *Handlers) Jump(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	request := JumpRequest{}
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if err := session.JumpTo(request.Target, request.ReturnTo, request.Focus); err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, session)
}

func (h *Handlers) Advance(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	if _, err := session.Advance(); err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, session)
}

type CompleteEditRequest struct {
	Cancel bool `json:"cancel"`
}

func (h *Handlers) CompleteEdit(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	request := CompleteEditRequest{}
	if err := c.Bind(&request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body").SetInternal(err)
	}
	if err := session.CompleteEdit(c.Request().Context(), request.Cancel); err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusOK, session)
}

func (h *Handlers) Submit(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	if err := session.Submit(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return h.respond(c, http.StatusAccepted, session)
}

type ReviewResponse struct {
	review.Review
	OrderText string `json:"orderText"`
}

func (h *Handlers) Review(c echo.Context) error {
	session, err := h.session(c)
	if err != nil {
		return err
	}
	draft := session.Draft()
	r := review.Build(draft, session.Registry(), session.Pump())
	text := review.OrderText(r.PatientName, r.PatientRows, r.TherapySettings, time.Now())

	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, text)
	}
	return c.JSON(http.StatusOK, ReviewResponse{Review: r, OrderText: text})
}

// session returns the session of the path, hiding sessions of other users
func (h *Handlers) session(c echo.Context) (*wizard.Session, error) {
	identity, _ := auth.IdentityFrom(c)
	session, err := h.sessions.Get(c.Param("sessionId"))
	if err != nil {
		return nil, httpError(err)
	}
	if session.UserId() != identity.UserId {
		return nil, httpError(fmt.Errorf("%w: %s", wizard.ErrSessionNotFound, c.Param("sessionId")))
	}
	return session, nil
}

func (h *Handlers) respond(c echo.Context, status int, session *wizard.Session) error {
	view, err := session.View()
	if err != nil {
		return httpError(err)
	}
	return c.JSON(status, view)
}

