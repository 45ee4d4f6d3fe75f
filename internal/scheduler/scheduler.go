package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"weather-aggregator-api/internal/alerts"
	"weather-aggregator-api/internal/weather"
)

// Sweeper periodically re-evaluates every stored subscription against fresh
// readings and logs the alerts that fire. Each location is fetched once per
// sweep regardless of how many subscriptions point at it.
type Sweeper struct {
	scheduler *gocron.Scheduler
	store     alerts.SubscriptionStore
	weather   *weather.Service
	interval  time.Duration
}

// New creates a new Sweeper.
func New(store alerts.SubscriptionStore, weatherSvc *weather.Service, interval time.Duration) *Sweeper {
	s := gocron.NewScheduler(time.UTC)
	return &Sweeper{
		scheduler: s,
		store:     store,
		weather:   weatherSvc,
		interval:  interval,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *Sweeper) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Sweeper) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Sweeper) sweep() {
	log.Println("scheduler: running alert sweep")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	normal, err := s.store.AllNormal(ctx)
	if err != nil {
		log.Printf("scheduler: failed to list normal subscriptions: %v", err)
		return
	}
	custom, err := s.store.AllCustom(ctx)
	if err != nil {
		log.Printf("scheduler: failed to list custom subscriptions: %v", err)
		return
	}

	readings := make(map[string]*weather.CurrentReading)
	readingFor := func(location string) *weather.CurrentReading {
		if reading, ok := readings[location]; ok {
			return reading
		}
		cw, err := s.weather.Current(ctx, location, "")
		if err != nil {
			log.Printf("scheduler: fetch failed for %q: %v", location, err)
			readings[location] = nil
			return nil
		}
		readings[location] = &cw.Current
		return &cw.Current
	}

	fired := 0
	for _, sub := range normal {
		reading := readingFor(sub.Location)
		if reading == nil {
			continue
		}
		if msg, ok := alerts.EvaluateNormal(sub, *reading); ok {
			log.Printf("scheduler: user %s: %s", sub.UserID, msg)
			fired++
		}
	}
	for _, sub := range custom {
		reading := readingFor(sub.Location)
		if reading == nil {
			continue
		}
		if msg, ok := alerts.EvaluateCustom(sub, *reading); ok {
			log.Printf("scheduler: user %s: %s", sub.UserID, msg)
			fired++
		}
	}

	log.Printf("scheduler: alert sweep complete, %d subscriptions checked, %d fired",
		len(normal)+len(custom), fired)
}
