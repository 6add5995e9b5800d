package app

import (
	"fmt"

	"github.com/allisson/tablegate/internal/database"
	"github.com/allisson/tablegate/internal/entity/parser"
	"github.com/allisson/tablegate/internal/entity/staging"
	"github.com/allisson/tablegate/internal/entity/store"
	entityUseCase "github.com/allisson/tablegate/internal/entity/usecase"
)

// StoreManager returns the entity store connection manager.
// The credential database pool settings apply to every entity store target.
func (c *Container) StoreManager() *store.Manager {
	c.storeManagerInit.Do(func() {
		c.storeManager = store.NewManager(database.Config{
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
	})
	return c.storeManager
}

// PayloadParser returns the key-value payload parser.
func (c *Container) PayloadParser() *parser.Parser {
	c.payloadParserInit.Do(func() {
		c.payloadParser = parser.New(c.config.DefaultPartitionKey)
	})
	return c.payloadParser
}

// StagingArena returns the upload staging arena. Its janitor goroutine runs
// until Container.Shutdown.
func (c *Container) StagingArena() *staging.Arena {
	c.stagingArenaInit.Do(func() {
		c.stagingArena = staging.NewArena(c.config.StagingTTL)
	})
	return c.stagingArena
}

// EntityUseCase returns the entity store use case. When metrics are enabled
// the use case is wrapped with operation counters and latency histograms.
func (c *Container) EntityUseCase() (entityUseCase.EntityUseCase, error) {
	var err error
	c.entityUseCaseInit.Do(func() {
		c.entityUseCase, err = c.initEntityUseCase()
		if err != nil {
			c.initErrors["entityUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entityUseCase"]; exists {
		return nil, storedErr
	}
	return c.entityUseCase, nil
}

// initEntityUseCase creates the entity use case with all its dependencies.
func (c *Container) initEntityUseCase() (entityUseCase.EntityUseCase, error) {
	useCase := entityUseCase.NewEntityUseCase(
		c.config,
		c.StoreManager(),
		c.PayloadParser(),
		c.StagingArena(),
	)

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for entity use case: %w", err)
		}
		useCase = entityUseCase.NewEntityUseCaseWithMetrics(useCase, businessMetrics)
	}

	return useCase, nil
}
