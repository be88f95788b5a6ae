package diagnostics

import (
	"context"
	"errors"
	nethttp "net/http"

	"InjectContainer/internal/assembler"
	"InjectContainer/internal/constant"
	"InjectContainer/internal/inject"
	"InjectContainer/internal/shared/transport"
	"InjectContainer/modules/kit/errx"
	"InjectContainer/modules/kit/logx"

	"github.com/gin-gonic/gin"
)

// Prober 由 assembler.Holder 实现。
type Prober interface {
	Probe(ctx context.Context) (assembler.Report, error)
}

type statusView struct {
	Name        string `json:"name"`
	Value       uint8  `json:"value"`
	Description string `json:"description"`
}

type Handler struct {
	prober Prober
	log    logx.Logger
}

func NewHandler(p Prober, log logx.Logger) *Handler {
	if log == nil {
		log = logx.Nop()
	}
	return &Handler{prober: p, log: log}
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/statuses", h.Statuses)
	group.GET("/probe", h.Probe)
}

// Statuses 列出全部执行状态及文案。
func (h *Handler) Statuses(c *gin.Context) {
	values := constant.Values()
	out := make([]statusView, 0, len(values))
	for _, s := range values {
		out = append(out, statusView{Name: s.String(), Value: uint8(s), Description: s.Description()})
	}
	c.JSON(nethttp.StatusOK, transport.Success(out))
}

// Probe 用当前容器解析一次 IdentityProbe。
func (h *Handler) Probe(c *gin.Context) {
	ctx := c.Request.Context()
	r, err := h.prober.Probe(ctx)
	if err != nil {
		logx.ReportSysErrorWithLoggerContext(ctx, h.log, "probe", err)
		transport.SetErrorReason(ctx, string(errx.CodeOf(err)))
		resp := transport.Error(mapErrToCode(err), r.Label)
		resp.Data = r
		c.JSON(nethttp.StatusOK, resp)
		return
	}
	c.JSON(nethttp.StatusOK, transport.Success(r))
}

func mapErrToCode(err error) int {
	switch {
	case errors.Is(err, errx.ErrUnavailable):
		return transport.Unavailable
	case errors.Is(err, errx.ErrReqParamERR):
		return transport.InvalidParam
	case errors.Is(err, inject.ErrBindingNotFound):
		return transport.NotFound
	default:
		return transport.SystemError
	}
}
