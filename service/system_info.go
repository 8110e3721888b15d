// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"fmt"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	LISTEN_ADDRESS       = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED       = "ORIGIN_ALLOWED"
	LOG_LEVEL            = "LOG_LEVEL"
	APIHUB_URL           = "APIHUB_URL"
	APIHUB_ACCESS_TOKEN  = "APIHUB_ACCESS_TOKEN"
	GENERATOR_URL        = "GENERATOR_URL"
	HOST_CALLBACK_URL    = "HOST_CALLBACK_URL"
	OLRIC_DISCOVERY_MODE = "OLRIC_DISCOVERY_MODE"
	REPLICA_COUNT        = "REPLICA_COUNT"
	NAMESPACE            = "NAMESPACE"
	RECOVERY_DEBOUNCE_MS = "RECOVERY_DEBOUNCE_MS"
	TOAST_DISMISS_MS     = "TOAST_DISMISS_MS"

	APIHUB_POSTGRESQL_HOST     = "APIHUB_POSTGRESQL_HOST"
	APIHUB_POSTGRESQL_PORT     = "APIHUB_POSTGRESQL_PORT"
	APIHUB_POSTGRESQL_DB_NAME  = "APIHUB_POSTGRESQL_DB_NAME"
	APIHUB_POSTGRESQL_USERNAME = "APIHUB_POSTGRESQL_USERNAME"
	APIHUB_POSTGRESQL_PASSWORD = "APIHUB_POSTGRESQL_PASSWORD"
)

const defaultQuietPeriod = time.Second * 5

type SystemInfoService interface {
	Init() error
	GetListenAddress() string
	GetOriginAllowed() string
	GetLogLevel() string
	GetApihubUrl() string
	GetAccessToken() string
	GetGeneratorUrl() string
	GetHostCallbackUrl() string
	GetOlricDiscoveryMode() string
	GetReplicaCount() int
	GetNamespace() string
	GetRecoveryDebouncePeriod() time.Duration
	GetToastDismissPeriod() time.Duration
	GetPGHost() string
	GetPGPort() int
	GetPGDB() string
	GetPGUser() string
	GetPGPassword() string
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) Init() error {
	g.setString(LISTEN_ADDRESS, ":8080")
	g.setString(ORIGIN_ALLOWED, "")
	g.setString(LOG_LEVEL, "")
	g.setString(GENERATOR_URL, "")
	g.setString(HOST_CALLBACK_URL, "")
	g.setString(OLRIC_DISCOVERY_MODE, "")
	g.setString(NAMESPACE, "")
	g.setInt(REPLICA_COUNT, 0)
	g.setDuration(RECOVERY_DEBOUNCE_MS, defaultQuietPeriod)
	g.setDuration(TOAST_DISMISS_MS, defaultQuietPeriod)

	g.setString(APIHUB_POSTGRESQL_HOST, "localhost")
	g.setInt(APIHUB_POSTGRESQL_PORT, 5432)
	g.setString(APIHUB_POSTGRESQL_DB_NAME, "apihub")
	g.setString(APIHUB_POSTGRESQL_USERNAME, "apihub")
	g.setString(APIHUB_POSTGRESQL_PASSWORD, "")

	apihubUrl := os.Getenv(APIHUB_URL)
	if apihubUrl == "" {
		return fmt.Errorf("%s env is not set", APIHUB_URL)
	}
	g.systemInfoMap[APIHUB_URL] = apihubUrl

	accessToken := os.Getenv(APIHUB_ACCESS_TOKEN)
	if accessToken == "" {
		return fmt.Errorf("%s env is not set", APIHUB_ACCESS_TOKEN)
	}
	g.systemInfoMap[APIHUB_ACCESS_TOKEN] = accessToken

	return nil
}

func (g systemInfoServiceImpl) setString(env string, defaultValue string) {
	value := os.Getenv(env)
	if value == "" {
		value = defaultValue
	}
	g.systemInfoMap[env] = value
}

func (g systemInfoServiceImpl) setInt(env string, defaultValue int) {
	value, err := strconv.Atoi(os.Getenv(env))
	if err != nil {
		value = defaultValue
	}
	g.systemInfoMap[env] = value
}

func (g systemInfoServiceImpl) setDuration(env string, defaultValue time.Duration) {
	ms, err := strconv.Atoi(os.Getenv(env))
	if err != nil || ms <= 0 {
		g.systemInfoMap[env] = defaultValue
		return
	}
	g.systemInfoMap[env] = time.Duration(ms) * time.Millisecond
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) GetApihubUrl() string {
	return g.systemInfoMap[APIHUB_URL].(string)
}

func (g systemInfoServiceImpl) GetAccessToken() string {
	return g.systemInfoMap[APIHUB_ACCESS_TOKEN].(string)
}

func (g systemInfoServiceImpl) GetGeneratorUrl() string {
	return g.systemInfoMap[GENERATOR_URL].(string)
}

func (g systemInfoServiceImpl) GetHostCallbackUrl() string {
	return g.systemInfoMap[HOST_CALLBACK_URL].(string)
}

func (g systemInfoServiceImpl) GetOlricDiscoveryMode() string {
	return g.systemInfoMap[OLRIC_DISCOVERY_MODE].(string)
}

func (g systemInfoServiceImpl) GetReplicaCount() int {
	return g.systemInfoMap[REPLICA_COUNT].(int)
}

func (g systemInfoServiceImpl) GetNamespace() string {
	return g.systemInfoMap[NAMESPACE].(string)
}

func (g systemInfoServiceImpl) GetRecoveryDebouncePeriod() time.Duration {
	return g.systemInfoMap[RECOVERY_DEBOUNCE_MS].(time.Duration)
}

func (g systemInfoServiceImpl) GetToastDismissPeriod() time.Duration {
	return g.systemInfoMap[TOAST_DISMISS_MS].(time.Duration)
}

func (g systemInfoServiceImpl) GetPGHost() string {
	return g.systemInfoMap[APIHUB_POSTGRESQL_HOST].(string)
}

func (g systemInfoServiceImpl) GetPGPort() int {
	return g.systemInfoMap[APIHUB_POSTGRESQL_PORT].(int)
}

func (g systemInfoServiceImpl) GetPGDB() string {
	return g.systemInfoMap[APIHUB_POSTGRESQL_DB_NAME].(string)
}

func (g systemInfoServiceImpl) GetPGUser() string {
	return g.systemInfoMap[APIHUB_POSTGRESQL_USERNAME].(string)
}

func (g systemInfoServiceImpl) GetPGPassword() string {
	return g.systemInfoMap[APIHUB_POSTGRESQL_PASSWORD].(string)
}
