package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Requests       *prometheus.CounterVec
	MessagesPosted prometheus.Counter
	Follows        prometheus.Counter
	Unfollows      prometheus.Counter
	Likes          *prometheus.CounterVec
	Signups        prometheus.Counter
	Logins         *prometheus.CounterVec
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_http_requests_total",
				Help: "Total number of HTTP requests by route and status class",
			},
			[]string{"method", "route", "status"},
		),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_messages_posted_total",
			Help: "Total number of messages posted",
		}),
		Follows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_follows_total",
			Help: "Total number of successful follow requests",
		}),
		Unfollows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_unfollows_total",
			Help: "Total number of successful unfollow requests",
		}),
		Likes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_like_toggles_total",
				Help: "Total number of like toggles by resulting state",
			},
			[]string{"state"},
		),
		Signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warbler_signups_total",
			Help: "Total number of accounts created",
		}),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_logins_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(
		m.Requests,
		m.MessagesPosted,
		m.Follows,
		m.Unfollows,
		m.Likes,
		m.Signups,
		m.Logins,
	)

	return m
}
