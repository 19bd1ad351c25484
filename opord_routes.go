package main

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/zach-portfolio/internal/opord"
)

const docxNotice = "DOCX export not available in this environment."

var errAmbiguousValue = errors.New("edit carries more than one value")

type metaField struct {
	Key   string
	Label string
	Value string
}

var metaLabels = map[string]string{
	opord.MetaTitle:          "Title",
	opord.MetaUnit:           "Unit",
	opord.MetaOpordNumber:    "OPORD #",
	opord.MetaDTGLocal:       "DTG (local)",
	opord.MetaLocation:       "Location",
	opord.MetaClassification: "Classification",
}

type builderView struct {
	State      opord.FormState
	Layout     opord.Layout
	Preview    template.HTML
	MetaFields []metaField
}

func (s *server) builderView() (builderView, error) {
	state := s.store.Snapshot()
	layout := opord.ComputeScheduleIn(s.cfg.Location, state.Window, state.Rows)
	preview, err := opord.PreviewHTML(state, layout)
	if err != nil {
		return builderView{}, err
	}

	fields := make([]metaField, 0, len(opord.MetaKeys))
	for _, key := range opord.MetaKeys {
		value, _ := state.Meta.MetaValue(key)
		fields = append(fields, metaField{Key: key, Label: metaLabels[key], Value: value})
	}
	return builderView{
		State:      state,
		Layout:     layout,
		Preview:    preview,
		MetaFields: fields,
	}, nil
}

// renderBuilder answers an edit with the re-rendered builder fragment. A
// rejected edit leaves the state alone and is answered with 400.
func (s *server) renderBuilder(c *gin.Context, editErr error) {
	status := http.StatusOK
	if editErr != nil {
		log.Printf("OPORD edit rejected: %v", editErr)
		status = http.StatusBadRequest
	}
	s.renderBuilderStatus(c, status)
}

func (s *server) renderBuilderStatus(c *gin.Context, status int) {
	view, err := s.builderView()
	if err != nil {
		log.Printf("Error rendering OPORD preview: %v", err)
		c.String(http.StatusInternalServerError, "Failed to render preview")
		return
	}
	c.HTML(status, "opord-builder.html", view)
}

// editValue returns the single "value" field of an edit. A request carrying
// several values cannot say which input changed and is rejected.
func editValue(c *gin.Context) (string, error) {
	values := c.PostFormArray("value")
	if len(values) > 1 {
		return "", errAmbiguousValue
	}
	return c.PostForm("value"), nil
}

func indexParam(c *gin.Context) (int, error) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, opord.ErrIndexOutOfRange
	}
	return index, nil
}

func (s *server) setupOpordRoutes(r *gin.Engine) {
	g := r.Group("/opord")

	g.GET("", func(c *gin.Context) {
		view, err := s.builderView()
		if err != nil {
			log.Printf("Error rendering OPORD preview: %v", err)
			c.String(http.StatusInternalServerError, "Failed to render preview")
			return
		}
		c.HTML(http.StatusOK, "opord.html", view)
	})

	g.POST("/meta", func(c *gin.Context) {
		value, err := editValue(c)
		if err == nil {
			err = s.store.SetMeta(c.PostForm("key"), value)
		}
		s.renderBuilder(c, err)
	})

	g.POST("/window", func(c *gin.Context) {
		value, err := editValue(c)
		if err == nil {
			err = s.store.SetWindow(c.PostForm("key"), value)
		}
		s.renderBuilder(c, err)
	})

	g.POST("/activities", func(c *gin.Context) {
		s.store.AddActivity()
		s.renderBuilder(c, nil)
	})

	g.POST("/activities/:index", func(c *gin.Context) {
		index, err := indexParam(c)
		var value string
		if err == nil {
			value, err = editValue(c)
		}
		if err == nil {
			err = s.store.SetActivityField(index, c.PostForm("key"), value)
		}
		s.renderBuilder(c, err)
	})

	g.DELETE("/activities/:index", func(c *gin.Context) {
		index, err := indexParam(c)
		if err == nil {
			err = s.store.RemoveActivity(index)
		}
		s.renderBuilder(c, err)
	})

	g.POST("/attachments", func(c *gin.Context) {
		s.store.AddAttachment()
		s.renderBuilder(c, nil)
	})

	g.POST("/attachments/:index/name", func(c *gin.Context) {
		index, err := indexParam(c)
		var value string
		if err == nil {
			value, err = editValue(c)
		}
		if err == nil {
			err = s.store.SetAttachmentName(index, value)
		}
		s.renderBuilder(c, err)
	})

	g.DELETE("/attachments/:index", func(c *gin.Context) {
		index, err := indexParam(c)
		if err == nil {
			err = s.store.RemoveAttachment(index)
		}
		s.renderBuilder(c, err)
	})

	g.POST("/attachments/:index/image", func(c *gin.Context) {
		index, err := indexParam(c)
		if err != nil {
			s.renderBuilder(c, err)
			return
		}
		header, err := c.FormFile("file")
		if err != nil {
			s.renderBuilder(c, err)
			return
		}
		f, err := header.Open()
		if err != nil {
			s.renderBuilder(c, err)
			return
		}
		defer f.Close()

		s.renderBuilder(c, s.store.AttachImage(c.Request.Context(), index, f))
	})

	g.GET("/state", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.store.Snapshot())
	})

	g.GET("/schedule", func(c *gin.Context) {
		state := s.store.Snapshot()
		c.JSON(http.StatusOK, opord.ComputeScheduleIn(s.cfg.Location, state.Window, state.Rows))
	})

	g.GET("/export.json", func(c *gin.Context) {
		data, err := opord.ExportJSON(s.store.Snapshot())
		if err != nil {
			log.Printf("Error exporting OPORD: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+opord.ExportFilename+`"`)
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	})

	// A rejected import is only logged; the 422 keeps htmx from swapping, so
	// the page the user sees is unchanged.
	g.POST("/import", func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			s.renderBuilder(c, err)
			return
		}
		f, err := header.Open()
		if err != nil {
			s.renderBuilder(c, err)
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			s.renderBuilder(c, err)
			return
		}
		if _, err := s.store.Import(data); err != nil {
			log.Printf("Invalid JSON import %q: %v", header.Filename, err)
			s.renderBuilderStatus(c, http.StatusUnprocessableEntity)
			return
		}
		s.renderBuilder(c, nil)
	})

	g.GET("/print", func(c *gin.Context) {
		state := s.store.Snapshot()
		layout := opord.ComputeScheduleIn(s.cfg.Location, state.Window, state.Rows)
		var buf bytes.Buffer
		if err := opord.RenderPrintView(&buf, state, layout); err != nil {
			log.Printf("Error rendering print view: %v", err)
			c.String(http.StatusInternalServerError, "Failed to render print view")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	})

	g.GET("/export.docx", func(c *gin.Context) {
		data, err := opord.ExportDOCX(s.store.Snapshot())
		if err != nil {
			c.HTML(http.StatusNotImplemented, "opord-notice.html", gin.H{"notice": docxNotice})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="opord.docx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", data)
	})

	g.GET("/export.ics", func(c *gin.Context) {
		var buf bytes.Buffer
		err := opord.ExportICS(&buf, s.store.Snapshot(), s.cfg.Location, time.Now())
		switch {
		case errors.Is(err, opord.ErrWindowUnset), errors.Is(err, opord.ErrEmptySchedule):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Printf("Error exporting calendar: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export calendar"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+opord.CalendarFilename+`"`)
		c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
	})
}
