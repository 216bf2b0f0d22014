// Package config provides configuration parsing for the memokit CLI.
//
// The configuration is stored in memokit.json or memokit.yaml in the working
// directory, or in any file passed with --config. Every field is optional.
//
// # Configuration File Structure
//
//	name: toast-demo
//	dev:
//	  enabled: true
//	  hookOrder: warn      # off | warn | panic
//	server:
//	  addr: localhost:8080
//	  shutdownTimeout: 5s
//	log:
//	  level: debug         # debug | info | warn | error
//	  format: text         # text | json
//	toast:
//	  delay: 3s
//	  path: /toast
//	metrics:
//	  enabled: true
//	  namespace: memokit
//	  path: /metrics
//	tracing:
//	  enabled: false
//	  tracerName: memokit
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Server.Addr)
package config
