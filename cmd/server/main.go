package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/talkform/talkform/internal/acl"
    "github.com/talkform/talkform/internal/config"
    "github.com/talkform/talkform/internal/database"
    "github.com/talkform/talkform/internal/handler"
    "github.com/talkform/talkform/internal/queue"
    "github.com/talkform/talkform/internal/repository"
    "github.com/talkform/talkform/internal/router"
)

func main() {
    // Load .env when present so a checkout runs without exported vars.
    if err := godotenv.Load(); err != nil {
        log.Printf("no .env file loaded: %v", err)
    }

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database connection failed: %v", err)
    }
    if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
        log.Fatalf("migrations failed: %v", err)
    }

    rdb := config.NewRedisClient()

    // Repositories wrap all SQL access.
    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    apiKeys := repository.NewAPIKeyRepo(db)
    projects := repository.NewProjectRepo(db)
    memberships := repository.NewMembershipRepo(db)
    accesses := repository.NewAPIAccessRepo(db)
    forms := repository.NewFeedbackFormRepo(db)
    patterns := repository.NewPathPatternRepo(db)
    prompts := repository.NewPromptRepo(db)
    responses := repository.NewResponseRepo(db)
    promptResponses := repository.NewPromptResponseRepo(db)

    engine := acl.NewEngine(accesses)

    auth := handler.NewAuthHandler(cfg, users, tokens)
    keys := handler.NewAPIKeyHandler(apiKeys)
    editor := handler.NewEditorHandler(projects, memberships, accesses, forms, patterns, prompts, users)
    core := handler.NewCoreHandler(engine, projects, forms, prompts, patterns)
    submit := handler.NewSubmitHandler(engine, projects, forms, prompts, responses, promptResponses)
    explore := handler.NewExploreHandler(engine, responses, promptResponses)

    // The consumer tails the response queue and appends submissions to
    // the activity log.  It reconnects on its own, so a failure here
    // never takes the server down.
    go func() {
        if err := queue.StartResponseConsumer(); err != nil {
            log.Printf("response consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    // Clients may call routes with or without a trailing slash.
    e.Pre(echomw.RemoveTrailingSlash())
    router.RegisterRoutes(e)
    router.RegisterAuth(e, auth, keys, cfg.JWTSecret)
    router.RegisterEditor(e, editor, cfg.JWTSecret)
    router.RegisterAPI(e, core, submit, explore, apiKeys, config.LoadRateLimitConfig(), rdb)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
