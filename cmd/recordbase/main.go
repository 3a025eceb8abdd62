package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/fulldump/box"
	"github.com/fulldump/goconfig"

	"github.com/TrellixVulnTeam/bsonview-6DWM/api"
	"github.com/TrellixVulnTeam/bsonview-6DWM/configuration"
	"github.com/TrellixVulnTeam/bsonview-6DWM/database"
	"github.com/TrellixVulnTeam/bsonview-6DWM/service"
)

var VERSION = "dev"

var banner = `
                            _ _
 _ __ ___  ___ ___  _ __ __| | |__   __ _ ___  ___
| '__/ _ \/ __/ _ \| '__/ _` + "`" + ` | '_ \ / _` + "`" + ` / __|/ _ \
| | |  __/ (_| (_) | | | (_| | |_) | (_| \__ \  __/
|_|  \___|\___\___/|_|  \__,_|_.__/ \__,_|___/\___|
                                 version ` + VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	db := database.NewDatabase(&database.Config{
		OplogField: c.OplogField,
	})

	b := api.Build(service.NewService(db), VERSION)
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.InterceptorUnavailable(db),
		api.RecoverFromPanic,
		api.PrettyErrorInterceptor,
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			db.Stop()
			s.Shutdown(context.Background())
		}
	}()

	wg := &sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := db.Start()
		if err != nil {
			fmt.Println(err.Error())
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := s.Serve(ln)
		if err != nil {
			fmt.Println(err.Error())
		}
	}()

	wg.Wait()
}
