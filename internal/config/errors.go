package config

const (
	// Backend errors
	ErrFetchBlogs     = "Failed to fetch blogs"
	ErrFetchBlog      = "Failed to fetch blog"
	ErrFetchOwnBlogs  = "Failed to fetch your blogs"
	ErrCreateBlog     = "Failed to create blog"
	ErrDeleteBlog     = "Failed to delete blog"
	ErrRestoreBlog    = "Failed to restore blog"
	ErrProtectedProbe = "Failed to fetch protected data"
	ErrGeneric        = "Something went wrong"

	// Session errors
	ErrNoToken = "No token found, please login first."

	// Image errors
	ErrImageTooLarge = "Image is too large (max 10MB)"
	ErrImageInvalid  = "Invalid image"

	ErrInternalServerError = "Internal server error"
	ErrBadForm             = "Could not read the submitted form"
)

const (
	MsgAccountCreated = "Account created successfully!"
	MsgBlogCreated    = "Blog created successfully!"
	MsgBlogDeleted    = "Blog deleted."
	MsgBlogRestored   = "Blog restored."
)
