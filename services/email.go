package services

import (
	"bytes"
	stdContext "context"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	log "github.com/sirupsen/logrus"
)

const emailSendTimeout = 10 * time.Second

// EmailSender is what the account and badge flows need from email.
type EmailSender interface {
	SendWelcomeEmail(ctx stdContext.Context, email, username string) error
	SendBadgeUnlockedEmail(ctx stdContext.Context, email, username string, badges []string) error
}

type EmailService struct {
	context.DefaultService

	client    *sesv2.Client
	region    string
	fromEmail string
	fromName  string
	baseURL   string
	enabled   bool

	templates map[string]*template.Template
}

const EMAIL_SVC = "email_svc"

func (svc EmailService) Id() string {
	return EMAIL_SVC
}

func (svc *EmailService) Configure(ctx *context.Context) error {
	svc.region = os.Getenv("SES_REGION")
	svc.fromEmail = os.Getenv("SES_FROM_EMAIL")
	svc.fromName = os.Getenv("SES_FROM_NAME")
	svc.baseURL = os.Getenv("APP_BASE_URL")

	if svc.region == "" {
		svc.region = "us-east-1"
	}
	if svc.fromName == "" {
		svc.fromName = "bloolabb"
	}
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:3000"
	}

	svc.templates = make(map[string]*template.Template)

	return svc.DefaultService.Configure(ctx)
}

func (svc *EmailService) Start() error {
	if err := svc.loadTemplates(); err != nil {
		return err
	}

	if svc.fromEmail == "" {
		log.Warn("Email service disabled: SES_FROM_EMAIL not configured")
		return nil
	}

	cfg, err := awsConfig.LoadDefaultConfig(stdContext.Background(), awsConfig.WithRegion(svc.region))
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc.client = sesv2.NewFromConfig(cfg)
	svc.enabled = true

	log.WithFields(log.Fields{"from": svc.fromEmail, "region": svc.region}).Info("Email service enabled")
	return nil
}

func (svc *EmailService) IsEnabled() bool {
	return svc.enabled
}

const welcomeEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Welcome to {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #2563EB; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .button { display: inline-block; padding: 12px 24px; background-color: #2563EB; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Welcome to {{.AppName}}!</h1>
        </div>
        <div class="content">
            <h2>Hi {{.Username}},</h2>
            <p>Your account is ready. Every lesson you pass earns XP, and learning a little every day builds your streak.</p>
            <p>Stuck on something? Ask the tutor. You get {{.Hearts}} questions every day.</p>
            <a href="{{.DashboardURL}}" class="button">Start learning</a>
        </div>
        <div class="footer">
            <p>This is an automated email from {{.AppName}}. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`

const badgeUnlockedEmailHTML = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New badge unlocked - {{.AppName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background-color: #F59E0B; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background-color: #f9f9f9; }
        .badge { font-weight: bold; color: #B45309; }
        .button { display: inline-block; padding: 12px 24px; background-color: #F59E0B; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
        .footer { padding: 20px; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>You unlocked a badge!</h1>
        </div>
        <div class="content">
            <h2>Nice work, {{.Username}}!</h2>
            <p>You just earned:</p>
            <ul>
            {{range .Badges}}<li class="badge">{{.}}</li>
            {{end}}
            </ul>
            <a href="{{.BadgesURL}}" class="button">See your badges</a>
        </div>
        <div class="footer">
            <p>This is an automated email from {{.AppName}}. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`

type WelcomeEmailData struct {
	AppName      string
	Username     string
	Hearts       int
	DashboardURL string
}

type BadgeUnlockedEmailData struct {
	AppName   string
	Username  string
	Badges    []string
	BadgesURL string
}

func (svc *EmailService) loadTemplates() error {
	if svc.templates == nil {
		svc.templates = make(map[string]*template.Template)
	}

	var err error

	svc.templates["welcome"], err = template.New("welcome").Parse(welcomeEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse welcome email template: %v", err)
	}

	svc.templates["badge_unlocked"], err = template.New("badge_unlocked").Parse(badgeUnlockedEmailHTML)
	if err != nil {
		return fmt.Errorf("failed to parse badge email template: %v", err)
	}

	return nil
}

func (svc *EmailService) SendWelcomeEmail(ctx stdContext.Context, email, username string) error {
	if !svc.enabled {
		log.WithField("to", email).Debug("Email disabled, skipping welcome email")
		return nil
	}

	data := WelcomeEmailData{
		AppName:      "bloolabb",
		Username:     username,
		Hearts:       5,
		DashboardURL: svc.baseURL + "/dashboard",
	}

	text := fmt.Sprintf("Hi %s,\n\nYour bloolabb account is ready. Start learning at %s\n", username, data.DashboardURL)
	return svc.sendTemplateEmail(ctx, email, "Welcome to bloolabb!", "welcome", data, text)
}

func (svc *EmailService) SendBadgeUnlockedEmail(ctx stdContext.Context, email, username string, badges []string) error {
	if !svc.enabled || len(badges) == 0 {
		return nil
	}

	data := BadgeUnlockedEmailData{
		AppName:   "bloolabb",
		Username:  username,
		Badges:    badges,
		BadgesURL: svc.baseURL + "/badges",
	}

	subject := "You unlocked a new badge on bloolabb"
	if len(badges) > 1 {
		subject = fmt.Sprintf("You unlocked %d new badges on bloolabb", len(badges))
	}

	text := fmt.Sprintf("Nice work, %s!\n\nYou just earned: %s\n\nSee your badges at %s\n",
		username, strings.Join(badges, ", "), data.BadgesURL)
	return svc.sendTemplateEmail(ctx, email, subject, "badge_unlocked", data, text)
}

func (svc *EmailService) sendTemplateEmail(ctx stdContext.Context, to, subject, templateName string, data interface{}, text string) error {
	tmpl, exists := svc.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to execute template: %v", err)
	}

	return svc.sendEmail(ctx, to, subject, body.String(), text)
}

func (svc *EmailService) sendEmail(ctx stdContext.Context, to, subject, html, text string) error {
	ctx, cancel := stdContext.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	from := svc.fromEmail
	if svc.fromName != "" {
		from = fmt.Sprintf("%s <%s>", svc.fromName, svc.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	result, err := svc.client.SendEmail(ctx, input)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"to": to, "subject": subject}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.WithFields(log.Fields{
		"to":         to,
		"subject":    subject,
		"message_id": aws.ToString(result.MessageId),
	}).Info("Email sent successfully")
	return nil
}
