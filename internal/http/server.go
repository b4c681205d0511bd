package http

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

type Server struct {
	Engine *gin.Engine
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg)}
}

// Run listens on address. A bare port ("8080") is accepted alongside the
// usual host:port form.
func (s *Server) Run(address string) error {
	addr, err := normalizeAddress(address)
	if err != nil {
		return err
	}
	return s.Engine.Run(addr)
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", fmt.Errorf("listen address is empty")
	}
	if !strings.Contains(address, ":") {
		address = ":" + address
	}
	return address, nil
}
