package main

import "rollcall/internal/app"

// @title           Rollcall API
// @version         1.0
// @description     User accounts with email verification and daily location check-ins.
// @BasePath        /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	app.Run()
}
