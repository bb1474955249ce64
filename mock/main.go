package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8082"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	http.HandleFunc("/v1/security/oauth2/token", TokenHandler)
	http.HandleFunc("/v2/shopping/flight-offers", SearchHandler)
	http.HandleFunc("/v1/shopping/flight-offers/pricing", PricingHandler)
	http.HandleFunc("/v1/booking/flight-orders", OrderHandler)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("Mock inventory server running on port %s...\n", port)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}
