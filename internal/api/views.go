package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

func pageTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// Resource is one learning-resources entry
type Resource struct {
	Title       string
	Description string
	Link        string
}

var learningResources = []Resource{
	{
		Title:       "Understanding LNG Benefits",
		Description: "Learn about the environmental and economic benefits of LNG",
		Link:        "https://molgasenergy.com/lng-benefits-discover-its-benefits-and-applications/",
	},
	{
		Title:       "Green Points Guide",
		Description: "How to maximize your Green Points and redemption value",
		Link:        "https://greenpts.org/",
	},
	{
		Title:       "Carbon Footprint Reduction",
		Description: "Track your contribution to reducing carbon emissions",
		Link:        "https://www.siemens.com/global/en/products/energy/topics/electrification-x.html?acz=1&gad_source=1&gad_campaignid=21198017406&gbraid=0AAAAADEuPPMdLcA7VPGShp0uU9GEw6pkS&gclid=CjwKCAjwx-zHBhBhEiwA7Kjq67P71VxPc6A6yfj9Kr3kkuTMCzfjXv-tvDbF4KL7WtnVEi8aLfd6jBoCuDMQAvD_BwE",
	},
	{
		Title:       "Sustainability Best Practices",
		Description: "Industry best practices for sustainable energy consumption",
		Link:        "Sustainability Best Practices",
	},
}

// registerPage renders the registration form
func (h *Handler) registerPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", nil)
}

// loginPage renders the login form
func (h *Handler) loginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

// dashboard renders the account overview
func (h *Handler) dashboard(c *gin.Context) {
	sess := currentSession(c)
	data, err := h.rewardsService.GetDashboard(c.Request.Context(), sess.BusinessID)
	if err != nil {
		h.serverErrorPage(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Business":        data.Business,
		"RecentPurchases": data.RecentPurchases,
		"TotalPurchases":  data.TotalPurchases,
	})
}

// resources renders the static learning resources list
func (h *Handler) resources(c *gin.Context) {
	c.HTML(http.StatusOK, "resources.html", gin.H{
		"Resources": learningResources,
	})
}

func (h *Handler) notFoundPage(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", nil)
}

func (h *Handler) serverErrorPage(c *gin.Context, _ interface{}) {
	c.HTML(http.StatusInternalServerError, "500.html", nil)
	c.Abort()
}
