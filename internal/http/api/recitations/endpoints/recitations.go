package endpoints

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/app"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/api/recitations/packets"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/tilawat/internal/likes"
	"github.com/Nixie-Tech-LLC/tilawat/internal/quranapi"
)

type RecitationController struct {
	site *app.Site
}

func newRecitationController(site *app.Site) *RecitationController {
	return &RecitationController{site: site}
}

// RecitationModule mounts the endpoints the browser scripts call.
func RecitationModule(site *app.Site) api.Module {
	ctl := newRecitationController(site)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/surahs/search", ctl.searchSurahs)
		c.POST("/recitations/:id/like", ctl.likeRecitation)
	})
}

// HealthModule mounts GET /health.
func HealthModule() api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/health", func(*gin.Context) (any, *api.APIError) {
			return packets.HealthResponse{Status: "ok"}, nil
		})
	})
}

func (r *RecitationController) pages(ctx *gin.Context) (*app.Pages, *api.APIError) {
	visitor, ok := middleware.GetVisitorID(ctx)
	if !ok {
		return nil, &api.APIError{Code: http.StatusUnauthorized, Message: "missing visitor"}
	}
	return r.site.For(visitor), nil
}

// GET /api/surahs/search?q=
func (r *RecitationController) searchSurahs(ctx *gin.Context) (any, *api.APIError) {
	pages, apiErr := r.pages(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	options, err := pages.SearchSurahs(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		log.Error().Err(err).Msg("error searching surahs")
		return nil, upstreamError(err)
	}

	out := make([]packets.SurahOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, packets.SurahOptionResponse{ID: o.ID, Label: o.Label})
	}
	return out, nil
}

// POST /api/recitations/:id/like
func (r *RecitationController) likeRecitation(ctx *gin.Context) (any, *api.APIError) {
	id := ctx.Param("id")
	if _, err := strconv.Atoi(id); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "Invalid recitation ID format"}
	}
	pages, apiErr := r.pages(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	btn, err := pages.Like(ctx.Request.Context(), id, ctx.Query("count"))
	if err != nil {
		if errors.Is(err, likes.ErrEmptyID) {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		return nil, upstreamError(err)
	}

	likesCount, _ := strconv.Atoi(btn.Count)
	recID, _ := strconv.Atoi(btn.ID)
	return packets.LikeResponse{ID: recID, Likes: likesCount, Liked: btn.State == app.Liked}, nil
}

func upstreamError(err error) *api.APIError {
	if apiErr, ok := quranapi.AsError(err); ok {
		code := http.StatusBadGateway
		if apiErr.Kind == quranapi.KindStatus && apiErr.Status >= 400 && apiErr.Status < 500 {
			code = apiErr.Status
		}
		return &api.APIError{Code: code, Message: apiErr.Message}
	}
	return &api.APIError{Code: http.StatusInternalServerError, Message: quranapi.MsgUnknown}
}
