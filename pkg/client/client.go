package client

import (
	"time"

	"gorm.io/gorm"

	"parkade/pkg/db/postgres"
	"parkade/pkg/logger"
)

// Client holds every external resource a service talks to. Each service
// initializes only the pieces it needs.
type Client struct {
	DB *gorm.DB

	Users    *UserClient
	Parking  *ParkingClient
	Bookings *BookingClient
	Payments *PaymentClient
	Geocoder *GeocoderClient

	log *logger.Logger
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetPostgres(log *logger.Logger, dsn string, connTimeout time.Duration) {
	db, err := postgres.Connect(dsn, connTimeout)
	if err != nil {
		log.Fatal("Failed to connect to Postgres", "error", err)
	}

	log.Info("Successfully connected to Postgres")
	c.DB = db
	c.log = log
}

func (c *Client) SetUserClient(baseURL string, timeout time.Duration) {
	c.Users = NewUserClient(baseURL, timeout)
}

func (c *Client) SetParkingClient(baseURL string, timeout time.Duration) {
	c.Parking = NewParkingClient(baseURL, timeout)
}

func (c *Client) SetBookingClient(baseURL string, timeout time.Duration) {
	c.Bookings = NewBookingClient(baseURL, timeout)
}

func (c *Client) SetPaymentClient(baseURL string, timeout time.Duration) {
	c.Payments = NewPaymentClient(baseURL, timeout)
}

func (c *Client) SetGeocoderClient(baseURL, apiKey string, timeout time.Duration) {
	c.Geocoder = NewGeocoderClient(baseURL, apiKey, timeout)
}

func (c *Client) GracefulShutdown() {
	if c.DB == nil {
		return
	}

	sqlDB, err := c.DB.DB()
	if err != nil {
		if c.log != nil {
			c.log.Error("Failed to access connection pool during shutdown", "error", err)
		}
		return
	}

	if err := sqlDB.Close(); err != nil {
		if c.log != nil {
			c.log.Error("Failed to close Postgres connections", "error", err)
		}
		return
	}

	if c.log != nil {
		c.log.Info("Postgres connections closed")
	}
}
