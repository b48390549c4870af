package portal

import (
	"strconv"

	"github.com/seanmeissimilly/alinfo/pkg/httpclient"
)

// ListRequest is the payload of a list operation.
type ListRequest struct {
	Token string
}

// IDRequest is the payload of an operation on one entity.
type IDRequest struct {
	ID    int
	Token string
}

// AppInput holds the fields sent when creating or updating an app. When Data
// is set the request is sent as multipart form data.
type AppInput struct {
	Title          string
	Version        string
	Description    string
	Classification int
	Data           *httpclient.File
}

func (in AppInput) body() httpclient.Body {
	if in.Data != nil {
		file := *in.Data
		file.Field = "data"
		return httpclient.Multipart([]httpclient.Field{
			{Name: "title", Value: in.Title},
			{Name: "description", Value: in.Description},
			{Name: "applicationclassification", Value: strconv.Itoa(in.Classification)},
			{Name: "version", Value: in.Version},
		}, file)
	}
	return httpclient.JSON(struct {
		Title          string `json:"title"`
		Version        string `json:"version"`
		Description    string `json:"description"`
		Classification int    `json:"applicationclassification"`
	}{in.Title, in.Version, in.Description, in.Classification})
}

// MultimediaInput holds the fields sent when creating or updating a
// multimedia entry.
type MultimediaInput struct {
	Title          string
	Description    string
	Classification int
	Data           *httpclient.File
}

func (in MultimediaInput) body() httpclient.Body {
	if in.Data != nil {
		file := *in.Data
		file.Field = "data"
		return httpclient.Multipart([]httpclient.Field{
			{Name: "title", Value: in.Title},
			{Name: "description", Value: in.Description},
			{Name: "multimediaclassification", Value: strconv.Itoa(in.Classification)},
		}, file)
	}
	return httpclient.JSON(struct {
		Title          string `json:"title"`
		Description    string `json:"description"`
		Classification int    `json:"multimediaclassification"`
	}{in.Title, in.Description, in.Classification})
}

// BlogInput holds the fields of a blog entry. An Image switches the request
// to multipart form data.
type BlogInput struct {
	Title string
	Body  string
	Image *httpclient.File
}

func (in BlogInput) body() httpclient.Body {
	if in.Image != nil {
		file := *in.Image
		file.Field = "image"
		return httpclient.Multipart([]httpclient.Field{
			{Name: "title", Value: in.Title},
			{Name: "body", Value: in.Body},
		}, file)
	}
	return httpclient.JSON(struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}{in.Title, in.Body})
}

// SuggestionInput holds the fields of a suggestion.
type SuggestionInput struct {
	Title string
	Body  string
}

func (in SuggestionInput) body() httpclient.Body {
	return httpclient.JSON(struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}{in.Title, in.Body})
}

// CommentInput is the text of a new blog comment.
type CommentInput struct {
	Text string `json:"text"`
}

// UserInput holds the profile fields sent on a user update. The password
// must pass the checklist in CheckPassword before the request is sent.
type UserInput struct {
	UserName        string
	Email           string
	Bio             string
	Image           string
	Password        string
	ConfirmPassword string
	Role            Role
}

func (in UserInput) body() httpclient.Body {
	return httpclient.JSON(struct {
		UserName string `json:"user_name"`
		Email    string `json:"email"`
		Bio      string `json:"bio"`
		Image    string `json:"image,omitempty"`
		Password string `json:"password"`
		Role     Role   `json:"role,omitempty"`
	}{in.UserName, in.Email, in.Bio, in.Image, in.Password, in.Role})
}
