// Package metrics holds the board's Prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AdsCreated counts ads filed through the profile pages
	AdsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "ads_created_total",
		Help:      "Number of ads created.",
	})

	// AdsDeleted counts ads removed by their authors
	AdsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "ads_deleted_total",
		Help:      "Number of ads deleted.",
	})

	// CommentsPosted counts accepted comments
	CommentsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "comments_posted_total",
		Help:      "Number of comments posted.",
	})

	// Registrations counts new accounts
	Registrations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "registrations_total",
		Help:      "Number of user registrations.",
	})

	// Activations counts followed activation links by outcome
	Activations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "activations_total",
		Help:      "Activation link outcomes.",
	}, []string{"result"})

	// Logins counts login attempts by outcome
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"result"})

	// MailFailures counts letters that could not be sent
	MailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "callboard",
		Name:      "mail_failures_total",
		Help:      "Number of letters that failed to send.",
	})
)
