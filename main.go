package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"jobboard/account"
	"jobboard/authority"
	"jobboard/bizerror"
	"jobboard/common"
	"jobboard/domain/company"
	"jobboard/domain/job"
	"jobboard/domain/resume"
	"jobboard/infra/tracing"
	"jobboard/persistence"
	"jobboard/servehttp"
	"jobboard/session"
	"jobboard/sessions"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	authConfig, err := session.ParseAuthConfigFromEnv()
	if err != nil {
		log.Fatalf("parse auth config failed %v\n", err)
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(context.Background()).AutoMigrate(
		&account.User{},
		&authority.Role{}, &authority.Permission{}, &authority.RolePermissionBinding{},
		&company.Company{}, &job.Job{}, &resume.Resume{}, &resume.ResumeStatusLog{},
	).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	if err := account.DefaultSecurityConfiguration(authConfig); err != nil {
		log.Fatalf("default security configuration failed %v\n", err)
	}

	tracerCloser, err := tracing.StartTracer(common.GetServiceName())
	if err != nil {
		common.Log.Warnf("tracer is not available: %v", err)
	} else {
		defer tracerCloser.Close()
	}

	authHandler := sessions.NewAuthHandler(authConfig)

	engine := gin.Default()
	engine.Use(bizerror.ErrorHandling(), tracing.TracingIngress(),
		session.AuthFilter(authHandler.TokenIssuer()), session.AuthorizeFilter())

	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "jobboard")
	})
	session.MarkPublicRoute(http.MethodGet, "/")

	sessions.RegisterAuthRestAPI(engine, authHandler)

	accountManage := account.NewAccountManage(authConfig)
	authorityManage := account.NewAuthorityManage(authConfig)
	account.RegisterUsersRestAPI(engine, accountManage)
	account.RegisterRolesRestAPI(engine, authorityManage)
	account.RegisterPermissionsRestAPI(engine, authorityManage)

	company.RegisterCompaniesRestAPI(engine)
	job.RegisterJobsRestAPI(engine)
	resume.RegisterResumesRestAPI(engine)

	addr := os.Getenv("SERVICE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	servehttp.StartHTTPServer(addr, engine)
}
