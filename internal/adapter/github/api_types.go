package github

// resourceResponse is the subset of any GitHub resource (pull request,
// issue, review, comment) needed to build display content. The body_html
// and body_text variants are only present when the request used the HTML
// media type.
type resourceResponse struct {
	Body     string `json:"body"`
	BodyHTML string `json:"body_html"`
	BodyText string `json:"body_text"`
}

// reviewCommentResponse is one element of a review's line comment listing.
type reviewCommentResponse struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
	resourceResponse
}

// errorResponse is GitHub's standard error payload.
type errorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}
