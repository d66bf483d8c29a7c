// Package web exposes the conversation engine over HTTP in the shape a
// WhatsApp gateway expects: an inbound webhook that receives one form-encoded
// message and answers with TwiML.
package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tinytrack/internal/logging"
)

// Responder is the slice of the engine the webhook needs.
type Responder interface {
	HandleMessage(ctx context.Context, sender, text string) ([]string, error)
}

type Server struct {
	engine Responder
	log    *logging.Logger
}

func NewServer(engine Responder) *Server {
	return &Server{
		engine: engine,
		log:    logging.Get(logging.CategoryWeb),
	}
}

// inboundMessage is the subset of the gateway's form fields we consume.
type inboundMessage struct {
	From string `form:"From" binding:"required"`
	Body string `form:"Body"`
}

// Router builds the HTTP surface: the message webhook plus a liveness probe.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/webhook", s.handleWebhook)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func (s *Server) handleWebhook(c *gin.Context) {
	var in inboundMessage
	if err := c.ShouldBind(&in); err != nil {
		s.log.Warn("webhook bind failed: %v", err)
		c.String(http.StatusBadRequest, "missing From field")
		return
	}

	replies, err := s.engine.HandleMessage(c.Request.Context(), in.From, in.Body)
	if err != nil {
		s.log.Error("handle message from %s: %v", in.From, err)
		replies = []string{"Something went wrong on our side. Please try again."}
	}

	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, twiml(replies))
}

// twiml renders the replies as one <Message> element each, so the gateway
// delivers every reply as its own outbound message.
func twiml(replies []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("<Response>")
	for _, r := range replies {
		b.WriteString("<Message>")
		xmlEscape(&b, r)
		b.WriteString("</Message>")
	}
	b.WriteString("</Response>")
	return b.String()
}

func xmlEscape(b *strings.Builder, s string) {
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteRune(r)
		}
	}
}
