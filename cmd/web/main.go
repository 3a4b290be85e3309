// @title           Estate API
// @version         1.0
// @description     Сессии, доступ по ролям и членству, одноразовые ссылки из писем и платежи для маркетплейса недвижимости.
// @contact.name    Estate
// @contact.email   support@estate.local
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

package main

import "estate_backend/internal/app"

func main() {
	app.Run()
}
