package webapi

// initRoutes registers the daemon's default routes, each individually
// switchable via webservices, exactly as the teacher's
// initDefaultRoutes does for its own fixed set.
func (s *Server) initRoutes(webservices map[string]bool) {
	api := s.web.Group("/")

	if webservices["version"] {
		api.Get("/version", s.handleVersion())
	}
	if webservices["health"] {
		api.Get("/health", s.handleHealth())
	}
	if webservices["frame"] {
		api.Get("/frame", s.handleFrame())
	}
	if webservices["stats"] {
		api.Get("/stats", s.handleStats())
	}
	if webservices["history"] && s.history != nil {
		api.Get("/history", s.handleHistory())
	}
	if webservices["stream"] {
		api.Get("/stream", s.handleStream())
	}
}
