package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticUrlPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout     = "layout.html"
	TemplateHome       = "home.html"
	TemplateFeed       = "feed.html"
	TemplatePost       = "post.html"
	TemplateOwn        = "own.html"
	TemplateCreate     = "create.html"
	TemplateError      = "error.html"
	TemplateNameLayout = "layout"
)
