package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"

	"moviewrite/cmd/internal/passphrase"
	"moviewrite/config"
	"moviewrite/crypto"
)

func runKeygen(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", "account.keystore", "keystore file to write")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	pass, err := passphrase.NewSource(config.KeystorePassphraseEnv, "account keystore").Get()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		fmt.Fprintf(stderr, "generate key: %v\n", err)
		return 1
	}
	if err := crypto.SaveToKeystore(*out, key, pass); err != nil {
		fmt.Fprintf(stderr, "save keystore: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Saved keystore to %s\n", *out)
	fmt.Fprintf(stdout, "Address: %s\n", key.PubKey().Address().String())
	return 0
}

func runAddress(args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: address <keystore>")
		return 2
	}
	pass, err := passphrase.NewSource(config.KeystorePassphraseEnv, "account keystore").Get()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	key, err := crypto.LoadFromKeystore(args[0], pass)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, key.PubKey().Address().String())
	return 0
}

func runCall(client *rpcClient, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || len(args) > 2 {
		fmt.Fprintln(stderr, "Usage: call <method> [params-json]")
		return 2
	}
	var param interface{}
	if len(args) == 2 {
		var raw json.RawMessage
		if err := json.Unmarshal([]byte(args[1]), &raw); err != nil {
			fmt.Fprintf(stderr, "invalid params JSON: %v\n", err)
			return 2
		}
		param = raw
	}
	result, err := client.call(args[0], param)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	printJSONResult(stdout, result)
	return 0
}

func runBalance(client *rpcClient, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(stderr, "Usage: balance <account>")
		return 2
	}
	if _, err := crypto.ParseAccount(args[0]); err != nil {
		fmt.Fprintf(stderr, "invalid account: %v\n", err)
		return 2
	}
	param := map[string]string{"account": args[0]}
	var balances struct {
		Balance string `json:"balance"`
	}
	for _, query := range []struct{ label, method string }{
		{"Reward tokens", "token_balanceOf"},
		{"Native balance", "bank_balance"},
	} {
		result, err := client.call(query.method, param)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		if err := json.Unmarshal(result, &balances); err != nil {
			fmt.Fprintf(stderr, "decode %s: %v\n", query.method, err)
			return 1
		}
		fmt.Fprintf(stdout, "%s: %s\n", query.label, balances.Balance)
	}
	return 0
}

func runGetByID(client *rpcClient, method string, args []string, stdout, stderr io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(stderr, "Usage: %s <id>\n", method)
		return 2
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid id %q\n", args[0])
		return 2
	}
	result, err := client.call(method, map[string]uint64{"id": id})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	printJSONResult(stdout, result)
	return 0
}

func runEvents(client *rpcClient, args []string, stdout, stderr io.Writer) int {
	if len(args) > 2 {
		fmt.Fprintln(stderr, "Usage: events [from] [limit]")
		return 2
	}
	var params struct {
		From  uint64 `json:"from"`
		Limit int    `json:"limit"`
	}
	if len(args) > 0 {
		from, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fmt.Fprintf(stderr, "invalid from %q\n", args[0])
			return 2
		}
		params.From = from
	}
	if len(args) > 1 {
		limit, err := strconv.Atoi(args[1])
		if err != nil || limit < 0 {
			fmt.Fprintf(stderr, "invalid limit %q\n", args[1])
			return 2
		}
		params.Limit = limit
	}
	result, err := client.call("events_list", params)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	printJSONResult(stdout, result)
	return 0
}
