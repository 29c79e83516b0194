package file

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/quillspace/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(r *gin.Engine, requireLogin gin.HandlerFunc) {
	r.GET("/media/:name", h.get)

	g := r.Group("/media", requireLogin)
	g.GET("/", h.list)
	g.POST("/", h.upload)
}

// get GET /media/{name}
func (h *Handler) get(c *gin.Context) {
	path, err := h.svc.Open(c.Param("name"))
	if err != nil {
		response.NotFound(c)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// list GET /media/  [auth]
func (h *Handler) list(c *gin.Context) {
	entries, err := os.ReadDir(h.svc.staticDir)
	if err != nil {
		if os.IsNotExist(err) {
			response.OK(c, []gin.H{})
			return
		}
		response.InternalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		info, err := ent.Info()
		if err != nil {
			continue
		}
		items = append(items, gin.H{
			"name":    ent.Name(),
			"url":     "/media/" + ent.Name(),
			"type":    detectContentType(ent.Name(), nil),
			"size":    info.Size(),
			"created": info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i]["created"].(int64) > items[j]["created"].(int64)
	})
	response.OK(c, items)
}

// upload POST /media/  [auth]
func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	name, err := h.svc.Save(fh)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Created(c, gin.H{
		"name": name,
		"url":  "/media/" + filepath.Base(name),
	})
}
