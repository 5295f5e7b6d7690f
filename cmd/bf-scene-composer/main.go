package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/venicegeo/bf-scene-composer/util"
)

func main() {
	godotenv.Load()
	util.LogAudit(&(util.BasicLogContext{}), util.LogAuditInput{Actor: "main()", Action: "startup", Actee: "self", Message: "Application Startup", Severity: util.INFO})
	err := createCliApp().Run(os.Args)
	if err != nil {
		util.LogAlert(&(util.BasicLogContext{}), fmt.Sprintf("Error executing CLI app: %v", err))
	}
}
