package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/factory", s.handleGetFactory)

		pairs := v1.Group("/pairs")
		{
			pairs.GET("", s.handleGetPairs)
			pairs.GET("/:addr", s.handleGetPair)
			pairs.GET("/:addr/price", s.handleGetPairPrice)
		}

		tokens := v1.Group("/tokens")
		{
			tokens.GET("/:addr", s.handleGetToken)
			tokens.GET("/:addr/balances/:account", s.handleGetBalance)
			tokens.GET("/:addr/allowances/:owner/:spender", s.handleGetAllowance)
			tokens.GET("/:addr/nonces/:owner", s.handleGetNonce)
		}
	}
}
