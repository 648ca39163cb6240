// Command smoke drives a running API through the Go client and prints the
// notifications a user would see, expiring them on the alert scheduler.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector-api/pkg/alert"
	"github.com/oksasatya/devconnector-api/pkg/client"
)

func main() {
	baseURL := flag.String("url", "http://localhost:5000", "API base URL")
	header := flag.String("header", "x-auth-token", "auth header name")
	timeout := flag.Duration("timeout", 10*time.Second, "per request timeout")
	linger := flag.Duration("linger", alert.DefaultDuration+time.Second, "how long to keep the alert loop running after the run")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	sched := alert.NewScheduler(clockwork.NewRealClock())
	alerts := alert.NewQueue(sched)
	alerts.OnChange = func(active []alert.Alert) {
		logger.WithField("active", len(active)).Debug("alerts changed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- sched.Run(ctx) }()

	api := client.New(*baseURL, alerts,
		client.WithAuthHeader(*header),
		client.WithHTTPClient(&http.Client{Timeout: *timeout}),
	)
	err := run(ctx, api)
	for _, a := range alerts.List() {
		logger.WithField("type", a.Type).Info(a.Msg)
	}

	time.Sleep(*linger)
	logger.WithField("remaining", alerts.Len()).Info("alerts after expiry")
	cancel()
	<-loopDone

	if err != nil {
		logger.WithError(err).Error("smoke run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client) error {
	email := fmt.Sprintf("smoke-%s@devconnector.local", uuid.NewString()[:8])
	if err := api.Register(ctx, "Smoke Test", email, "secret123"); err != nil {
		return err
	}
	if _, err := api.SaveProfile(ctx, client.ProfileForm{Status: "Developer", Skills: "Go, Rust"}, false); err != nil {
		return err
	}
	exp, err := api.AddExperience(ctx, client.Experience{Title: "Engineer", Company: "Acme", From: "2020-01-01", Current: true})
	if err != nil {
		return err
	}
	edu, err := api.AddEducation(ctx, client.Education{School: "State University", Degree: "BSc", FieldOfStudy: "CS", From: "2014-09-01", To: "2018-06-30"})
	if err != nil {
		return err
	}
	me, err := api.CurrentProfile(ctx)
	if err != nil {
		return err
	}
	if _, err := api.ProfileByUser(ctx, me.User.ID); err != nil {
		return err
	}
	if _, err := api.DeleteExperience(ctx, exp.Experience[0].ID); err != nil {
		return err
	}
	if _, err := api.DeleteEducation(ctx, edu.Education[0].ID); err != nil {
		return err
	}

	p, err := api.AddPost(ctx, "hello")
	if err != nil {
		return err
	}
	if _, err := api.Like(ctx, p.ID); err != nil {
		return err
	}
	// a second like is rejected and surfaces as a danger alert
	_, _ = api.Like(ctx, p.ID)
	if _, err := api.Unlike(ctx, p.ID); err != nil {
		return err
	}
	cs, err := api.AddComment(ctx, p.ID, "first")
	if err != nil {
		return err
	}
	if _, err := api.DeleteComment(ctx, p.ID, cs[0].ID); err != nil {
		return err
	}
	if err := api.DeletePost(ctx, p.ID); err != nil {
		return err
	}
	return api.DeleteAccount(ctx)
}
