// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/hackhub/internal/app/system/events"
	"github.com/dalemusser/hackhub/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Hub and SeatSweeper are built with the connection and started in Startup.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Hub         *events.Hub
	SeatSweeper *workers.SeatSweeper
}
