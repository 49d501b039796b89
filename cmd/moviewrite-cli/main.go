package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	rpcURLEnv   = "MOVIEWRITE_RPC_URL"
	rpcTokenEnv = "MOVIEWRITE_RPC_TOKEN"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	client := &rpcClient{endpoint: defaultRPCEndpoint(), token: strings.TrimSpace(os.Getenv(rpcTokenEnv))}
	args, err := applyGlobalFlags(client, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "keygen":
		return runKeygen(args[1:], stdout, stderr)
	case "address":
		return runAddress(args[1:], stdout, stderr)
	case "call":
		return runCall(client, args[1:], stdout, stderr)
	case "balance":
		return runBalance(client, args[1:], stdout, stderr)
	case "article":
		return runGetByID(client, "article_get", args[1:], stdout, stderr)
	case "certificate":
		return runGetByID(client, "certificate_get", args[1:], stdout, stderr)
	case "events":
		return runEvents(client, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func defaultRPCEndpoint() string {
	if v := strings.TrimSpace(os.Getenv(rpcURLEnv)); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func applyGlobalFlags(client *rpcClient, args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--rpc" || arg == "--token":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("missing value for %s", arg)
			}
			if arg == "--rpc" {
				client.endpoint = args[i+1]
			} else {
				client.token = args[i+1]
			}
			i++
		case strings.HasPrefix(arg, "--rpc="):
			client.endpoint = strings.TrimPrefix(arg, "--rpc=")
		case strings.HasPrefix(arg, "--token="):
			client.token = strings.TrimPrefix(arg, "--token=")
		default:
			out = append(out, arg)
		}
	}
	return out, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: moviewrite-cli [--rpc URL] [--token TOKEN] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  keygen [--out PATH]          generate an account key into an encrypted keystore")
	fmt.Fprintln(w, "  address <keystore>           print the account address held by a keystore")
	fmt.Fprintln(w, "  call <method> [params-json]  invoke any JSON-RPC method")
	fmt.Fprintln(w, "  balance <account>            show reward token and native balances")
	fmt.Fprintln(w, "  article <id>                 show an article")
	fmt.Fprintln(w, "  certificate <id>             show a certificate")
	fmt.Fprintln(w, "  events [from] [limit]        list event log entries")
}
