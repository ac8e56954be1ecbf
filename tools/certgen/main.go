// Package main writes a development CA and a server certificate for the
// identity stub into a directory ("certs" by default).
//
//	go run ./tools/certgen -dir certs -hosts localhost,127.0.0.1
//	go run ./cmd/identitystub -cert certs/server.crt -key certs/server.key
//	go run ./cmd/client -ca certs/ca.crt
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atinyakov/ownerhub/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fs.String("dir", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma separated server names and IPs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := certgen.WriteDevCerts(*dir, splitHosts(*hosts)); err != nil {
		return err
	}
	fmt.Fprintf(out, "Certificates generated into %s\n", *dir)
	return nil
}

func splitHosts(s string) []string {
	var hosts []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
