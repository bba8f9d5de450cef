package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/sentryline-systems/sentryline-receiver/internal/protocol"
)

// buildFrame assembles one wire frame from explicit fields.
func buildFrame(proto, account, qualifier, code, zone string) ([]byte, error) {
	switch proto {
	case "sia":
		return buildSIAFrame(account, qualifier, code, zone, time.Now()), nil
	case "cid":
		return buildCIDFrame(account, qualifier, code, zone)
	default:
		return nil, fmt.Errorf("unknown protocol %q (want sia or cid)", proto)
	}
}

func buildSIAFrame(account, qualifier, code, zone string, at time.Time) []byte {
	// ["<account>"]<HHMMSS,MMDDYY>|<code><qualifier><zone>\n
	return []byte(fmt.Sprintf("[%q]%s|%s%s%s\n",
		account, at.Format("150405,010206"), code, qualifier, zone))
}

func buildCIDFrame(account, qualifier, code, zone string) ([]byte, error) {
	if len(account) != 4 {
		return nil, fmt.Errorf("cid account must be 4 digits, got %q", account)
	}
	if len(qualifier) != 1 || len(code) != 3 || len(zone) != 3 {
		return nil, fmt.Errorf("cid fields must be qualifier/1 code/3 zone/3")
	}

	body := account + "18" + qualifier + code + "00" + zone
	checksum, err := protocol.CIDChecksum(body)
	if err != nil {
		return nil, err
	}
	return []byte(body + string(checksum) + "$"), nil
}

var siaCodes = []string{"BA", "FA", "PA", "TA", "AT", "AR", "YT", "YR"}
var cidCodes = []string{"130", "131", "110", "120", "301", "302", "401", "570"}

// generateFrame produces a plausible random frame. An empty account means a
// fresh random one per frame.
func generateFrame(proto, account string) ([]byte, error) {
	if account == "" {
		account = gofakeit.DigitN(4)
	}

	switch proto {
	case "sia":
		pair := gofakeit.RandomString(siaCodes)
		zone := gofakeit.DigitN(uint(gofakeit.Number(1, 3)))
		return buildSIAFrame(account, pair[1:2], pair[0:1], zone, time.Now()), nil
	case "cid":
		qualifier := gofakeit.RandomString([]string{"1", "3"})
		code := gofakeit.RandomString(cidCodes)
		zone := fmt.Sprintf("%03d", gofakeit.Number(1, 999))
		return buildCIDFrame(account, qualifier, code, zone)
	default:
		return nil, fmt.Errorf("unknown protocol %q (want sia or cid)", proto)
	}
}
