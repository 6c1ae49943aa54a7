// Package routes defines HTTP route constants for the application.
package routes

// Pages
const (
	RootPath   = "/"
	BlogFeed   = "/blogfeed"
	BlogDetail = "/blogs/{id}"
	OwnBlogs   = "/ownblog"
	CreateBlog = "/createblogs"

	// Soft delete and restore of the caller's own posts.
	OwnBlogDelete  = "/ownblog/{id}/delete"
	OwnBlogRestore = "/ownblog/{id}/restore"
)

// Auth
const (
	Login     = "/login"
	SignUp    = "/signup"
	Logout    = "/logout"
	Protected = "/protected"
)

// Theme and assets
const (
	RobotsPath  = "/robots.txt"
	ThemeToggle = "/theme/toggle"
	SyntaxCSS   = "/theme/syntax.css"
)
