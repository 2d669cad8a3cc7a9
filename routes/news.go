package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ctonews/cache"
	"ctonews/config"
	"ctonews/jobs"
	"ctonews/middleware"
	"ctonews/routes/rutil"
	"ctonews/store"
)

// A page size that amounts to "everything" for the all=true escape hatch.
const unboundedPageSize = 10000

type Handler struct {
	Cache  *cache.Cache
	Store  *store.Store
	Runner *jobs.Runner
}

func (h *Handler) NewsIndex(w http.ResponseWriter, r *http.Request) {
	page := rutil.QueryInt(r, "page", 1)
	pageSize := rutil.QueryInt(r, "page_size", 20)
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")
	all := rutil.QueryBool(r, "all")

	if all {
		pageSize = unboundedPageSize
	}

	result, err := h.Cache.Query(page, pageSize, category, search)
	if err != nil {
		middleware.GetLogger(r).Error().Err(err).Msg("Get news failed")
		rutil.MustWriteJson(w, http.StatusInternalServerError, map[string]any{
			"detail": err.Error(),
		})
		return
	}
	if all {
		result.PageSize = result.Total
	}

	rutil.MustWriteJson(w, http.StatusOK, result)
}

func (h *Handler) NewsShow(w http.ResponseWriter, r *http.Request) {
	articleId := chi.URLParam(r, "articleId")
	article, ok := h.Cache.FindById(articleId)
	if !ok {
		rutil.MustWriteJson(w, http.StatusNotFound, map[string]any{
			"detail": "Article not found",
		})
		return
	}
	rutil.MustWriteJson(w, http.StatusOK, article)
}

func (h *Handler) NewsCrawl(w http.ResponseWriter, r *http.Request) {
	maxPages := rutil.QueryInt(r, "max_pages", config.Cfg.MaxPages)

	if !jobs.SubmitCrawl(h.Runner, jobs.Deps{Cache: h.Cache, Store: h.Store}, maxPages) {
		rutil.MustWriteJson(w, http.StatusServiceUnavailable, map[string]any{
			"detail": "Crawler is busy, try again later",
		})
		return
	}

	rutil.MustWriteJson(w, http.StatusOK, map[string]any{
		"message":   "Crawl task started",
		"max_pages": maxPages,
		"timestamp": time.Now().Format(time.RFC3339),
		"note":      "Crawling in background, check cache status later",
	})
}

func (h *Handler) NewsStatus(w http.ResponseWriter, r *http.Request) {
	rutil.MustWriteJson(w, http.StatusOK, map[string]any{
		"service_status": h.Cache.Status(),
		"source": map[string]string{
			"name":       config.Cfg.Source,
			"identifier": config.Cfg.Source,
			"category":   config.Cfg.Category,
		},
		"timestamp": time.Now().Format(time.RFC3339),
		"endpoints": map[string]string{
			"all_news":       "/api/news/",
			"news_detail":    "/api/news/{article_id}",
			"manual_crawl":   "/api/news/crawl",
			"service_status": "/api/news/status/info",
			"cache_refresh":  "/api/news/cache/refresh",
		},
	})
}

func (h *Handler) CacheRefresh(w http.ResponseWriter, r *http.Request) {
	if !jobs.SubmitRefresh(h.Runner, jobs.Deps{Cache: h.Cache, Store: h.Store}) {
		rutil.MustWriteJson(w, http.StatusServiceUnavailable, map[string]any{
			"detail": "Crawler is busy, try again later",
		})
		return
	}

	rutil.MustWriteJson(w, http.StatusOK, map[string]any{
		"message":   "Cache refresh started",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
