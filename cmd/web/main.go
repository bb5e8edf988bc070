// @title           relax API
// @version         1.0
// @description     API каталога заведений и анкет с платным VIP-размещением.
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "relax_backend/internal/app"

func main() {
	app.Run()
}
