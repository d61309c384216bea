package service

import (
	"context"
	"fmt"
	nethttp "net/http"
	"strconv"

	"github.com/go-kratos/kratos/v2/transport/http"
)

const (
	OperationCreateSession   = "/crowdvoice.v1.CrowdVoice/CreateSession"
	OperationSubmit          = "/crowdvoice.v1.CrowdVoice/Submit"
	OperationGetSession      = "/crowdvoice.v1.CrowdVoice/GetSession"
	OperationRefreshAll      = "/crowdvoice.v1.CrowdVoice/RefreshAll"
	OperationRefreshAnalysis = "/crowdvoice.v1.CrowdVoice/RefreshAnalysis"
	OperationSection         = "/crowdvoice.v1.CrowdVoice/Section"
	OperationExportMarkdown  = "/crowdvoice.v1.CrowdVoice/ExportMarkdown"
	OperationExportHTML      = "/crowdvoice.v1.CrowdVoice/ExportHTML"
)

// RegisterCrowdVoiceHTTPServer 注册 /api 下的全部路由
func RegisterCrowdVoiceHTTPServer(s *http.Server, srv *CrowdVoiceService) {
	r := s.Route("/api")
	r.POST("/sessions", createSessionHandler(srv))
	r.POST("/sessions/{id}/submit", submitHandler(srv))
	r.GET("/sessions/{id}", getSessionHandler(srv))
	r.POST("/sessions/{id}/refresh", refreshAllHandler(srv))
	r.POST("/sessions/{id}/analyses/{kind}/refresh", refreshAnalysisHandler(srv))
	r.GET("/sessions/{id}/sections/{kind}", sectionHandler(srv))
	r.GET("/sessions/{id}/export.md", exportMarkdownHandler(srv))
	r.GET("/sessions/{id}/export.html", exportHTMLHandler(srv))
}

func createSessionHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in SubmitRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationCreateSession)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.CreateSession(ctx, req.(*SubmitRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func submitHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		var in SubmitRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		id := ctx.Vars().Get("id")
		http.SetOperation(ctx, OperationSubmit)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Submit(ctx, id, req.(*SubmitRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func getSessionHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		wait, _ := strconv.ParseBool(ctx.Query().Get("wait"))
		http.SetOperation(ctx, OperationGetSession)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.GetSession(ctx, id, wait)
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func refreshAllHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		http.SetOperation(ctx, OperationRefreshAll)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.RefreshAll(ctx, id)
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func refreshAnalysisHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		vars := ctx.Vars()
		id, kind := vars.Get("id"), vars.Get("kind")
		http.SetOperation(ctx, OperationRefreshAnalysis)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.RefreshAnalysis(ctx, id, kind)
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func sectionHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		vars := ctx.Vars()
		id, kind := vars.Get("id"), vars.Get("kind")
		http.SetOperation(ctx, OperationSection)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.Section(ctx, id, kind)
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return ctx.Blob(200, "text/plain; charset=utf-8", []byte(out.(string)))
	}
}

func exportMarkdownHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		download, _ := strconv.ParseBool(ctx.Query().Get("download"))
		http.SetOperation(ctx, OperationExportMarkdown)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ExportMarkdown(ctx, id)
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return writeExport(ctx, out.(*ExportReply), download)
	}
}

func exportHTMLHandler(srv *CrowdVoiceService) func(ctx http.Context) error {
	return func(ctx http.Context) error {
		id := ctx.Vars().Get("id")
		download, _ := strconv.ParseBool(ctx.Query().Get("download"))
		http.SetOperation(ctx, OperationExportHTML)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return srv.ExportHTML(ctx, id)
		})
		out, err := h(ctx, id)
		if err != nil {
			return err
		}
		return writeExport(ctx, out.(*ExportReply), download)
	}
}

func writeExport(ctx http.Context, out *ExportReply, download bool) error {
	if download {
		ctx.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	}
	return ctx.Blob(nethttp.StatusOK, out.ContentType, out.Body)
}
