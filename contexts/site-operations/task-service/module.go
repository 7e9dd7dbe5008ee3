package taskservice

import (
	"log/slog"

	httpadapter "zodchiy/contexts/site-operations/task-service/adapters/http"
	"zodchiy/contexts/site-operations/task-service/adapters/memory"
	"zodchiy/contexts/site-operations/task-service/application/commands"
	"zodchiy/contexts/site-operations/task-service/application/queries"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	"zodchiy/contexts/site-operations/task-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Evidence   ports.EvidenceStore
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	createTask := commands.CreateTaskUseCase{
		Repository: deps.Repository,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	changeStatus := commands.ChangeTaskStatusUseCase{
		Repository: deps.Repository,
		Evidence:   deps.Evidence,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	addEvidence := commands.AddEvidenceUseCase{
		Repository: deps.Repository,
		Evidence:   deps.Evidence,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	queryUseCase := queries.QueryUseCase{
		Repository: deps.Repository,
		Evidence:   deps.Evidence,
		Logger:     deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateTask:       createTask,
			ChangeTaskStatus: changeStatus,
			AddEvidence:      addEvidence,
			Queries:          queryUseCase,
			Logger:           deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Task, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Repository: store,
		Evidence:   store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
