package main

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

var (
	postHelpPattern = regexp.MustCompile(`(?i)how.*post|make.*post|create.*post`)
	greetingPattern = regexp.MustCompile(`(?i)hello|hi|hey`)
)

type ChatbotRequest struct {
	Message string `json:"message"`
}

// Chatbot answers the in-app guidance widget with canned replies.
func Chatbot(c *gin.Context) {
	var body ChatbotRequest
	_ = c.ShouldBindJSON(&body)

	var reply string
	switch {
	case body.Message == "" || postHelpPattern.MatchString(body.Message):
		reply = `To make a post, go to the main screen and tap the "+" button. Fill in the details and submit!`
	case greetingPattern.MatchString(body.Message):
		reply = "Hello! Ask me how to make a post or any other question about using the app."
	default:
		reply = `I can help you with making posts. Try asking: "How do I make a post?"`
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
