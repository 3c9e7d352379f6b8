package main

import (
	"github.com/eleven-am/blog-backend/internal/bootstrap"
)

// @title Blog Backend API
// @version 1.0.0
// @description API server for a blog platform with gamified reading

// @host api.blog.example.com
// @BasePath /v1

// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name blog_session

func main() {
	bootstrap.Run()
}
