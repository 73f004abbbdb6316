package service

import "fmt"

func registrationEmailTemplate(email, confirmationURL, appName string) (string, string) {
	subject := "Successfully signed up"
	body := fmt.Sprintf(`Hi %s!

You have successfully signed up to %s. Please confirm your email by clicking on the following link:
%s

Best,
The %s Team`, email, appName, confirmationURL, appName)

	return subject, body
}

func imageFailedEmailTemplate(email, appName string) (string, string) {
	subject := "Error generating image"
	body := fmt.Sprintf(`Hi %s,

Unfortunately there was an error generating an image for your post.

Best,
The %s Team`, email, appName)

	return subject, body
}

func imageReadyEmailTemplate(email, postURL, appName string) (string, string) {
	subject := "Image generation completed"
	body := fmt.Sprintf(`Hi %s!

Your image has been generated and added to your post. Please click on the following link to view it:
%s

Best,
The %s Team`, email, postURL, appName)

	return subject, body
}
