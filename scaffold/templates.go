package scaffold

import (
	"fmt"
	"strings"
)

func settingsGradle(name string) string {
	return fmt.Sprintf(`pluginManagement {
    repositories {
        google()
        mavenCentral()
        gradlePluginPortal()
    }
}
dependencyResolutionManagement {
    repositoriesMode.set(RepositoriesMode.FAIL_ON_PROJECT_REPOS)
    repositories {
        google()
        mavenCentral()
    }
}
rootProject.name = "%s"
include ':app'
`, name)
}

func rootBuildGradle(v Versions) string {
	return fmt.Sprintf(`plugins {
    id 'com.android.application' version '%s' apply false
    id 'org.jetbrains.kotlin.android' version '%s' apply false
}
`, v.AGP, v.Kotlin)
}

func gradleProperties() string {
	return `org.gradle.jvmargs=-Xmx2048m -Dfile.encoding=UTF-8
android.useAndroidX=true
kotlin.code.style=official
android.nonTransitiveRClass=true
`
}

// gradlewScript is a placeholder wrapper. Real builds prefer the managed
// Gradle distribution; Android Studio regenerates the wrapper on sync.
func gradlewScript() string {
	return `#!/bin/sh
# Gradle wrapper placeholder. Open the project in Android Studio or run a
# locally installed gradle to regenerate the full wrapper.
exec gradle "$@"
`
}

func appBuildGradle(pkg string, v Versions) string {
	return fmt.Sprintf(`plugins {
    id 'com.android.application'
    id 'org.jetbrains.kotlin.android'
}

android {
    namespace '%s'
    compileSdk %d

    defaultConfig {
        applicationId "%s"
        minSdk %d
        targetSdk %d
        versionCode 1
        versionName "1.0"
    }

    buildTypes {
        release {
            minifyEnabled false
            proguardFiles getDefaultProguardFile('proguard-android-optimize.txt'), 'proguard-rules.pro'
        }
    }
    compileOptions {
        sourceCompatibility JavaVersion.VERSION_17
        targetCompatibility JavaVersion.VERSION_17
    }
    kotlinOptions {
        jvmTarget = '17'
    }
}

dependencies {
    implementation 'androidx.core:core-ktx:1.13.1'
    implementation 'androidx.appcompat:appcompat:1.7.0'
    implementation 'com.google.android.material:material:%s'
    implementation 'androidx.constraintlayout:constraintlayout:2.1.4'
}
`, pkg, v.CompileSDK, pkg, v.MinSDK, v.TargetSDK, v.Material)
}

func androidManifest(name string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<manifest xmlns:android="http://schemas.android.com/apk/res/android">

    <uses-permission android:name="android.permission.INTERNET" />

    <application
        android:allowBackup="true"
        android:label="%s"
        android:supportsRtl="true"
        android:theme="@style/Theme.%s">
        <activity
            android:name=".MainActivity"
            android:exported="true">
            <intent-filter>
                <action android:name="android.intent.action.MAIN" />
                <category android:name="android.intent.category.LAUNCHER" />
            </intent-filter>
        </activity>
    </application>

</manifest>
`, name, themeName(name))
}

func mainActivity(pkg, name string) string {
	return fmt.Sprintf(`package %s

import android.os.Bundle
import androidx.appcompat.app.AppCompatActivity

class MainActivity : AppCompatActivity() {
    override fun onCreate(savedInstanceState: Bundle?) {
        super.onCreate(savedInstanceState)
        setContentView(R.layout.activity_main)
    }
}
`, pkg)
}

func activityMainLayout(name string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<androidx.constraintlayout.widget.ConstraintLayout
    xmlns:android="http://schemas.android.com/apk/res/android"
    xmlns:app="http://schemas.android.com/apk/res-auto"
    android:layout_width="match_parent"
    android:layout_height="match_parent">

    <TextView
        android:id="@+id/title"
        android:layout_width="wrap_content"
        android:layout_height="wrap_content"
        android:text="%s"
        android:textSize="24sp"
        app:layout_constraintBottom_toBottomOf="parent"
        app:layout_constraintEnd_toEndOf="parent"
        app:layout_constraintStart_toStartOf="parent"
        app:layout_constraintTop_toTopOf="parent" />

</androidx.constraintlayout.widget.ConstraintLayout>
`, name)
}

func stringsXML(name string) string {
	return fmt.Sprintf(`<resources>
    <string name="app_name">%s</string>
</resources>
`, name)
}

func colorsXML() string {
	return `<?xml version="1.0" encoding="utf-8"?>
<resources>
    <color name="purple_500">#FF6200EE</color>
    <color name="purple_700">#FF3700B3</color>
    <color name="teal_200">#FF03DAC5</color>
    <color name="black">#FF000000</color>
    <color name="white">#FFFFFFFF</color>
</resources>
`
}

func themesXML(name string) string {
	return fmt.Sprintf(`<resources>
    <style name="Theme.%s" parent="Theme.MaterialComponents.DayNight.DarkActionBar">
        <item name="colorPrimary">@color/purple_500</item>
        <item name="colorPrimaryVariant">@color/purple_700</item>
        <item name="colorSecondary">@color/teal_200</item>
    </style>
</resources>
`, themeName(name))
}

func themeName(name string) string {
	return strings.ReplaceAll(name, " ", "")
}

func readme(name, description string) string {
	return fmt.Sprintf(`# %s

%s

## Building

Open the project in Android Studio, or from the command line:

    gradle assembleDebug

The debug APK lands in app/build/outputs/apk/debug/.
`, name, description)
}

func roomModel(pkg string) string {
	return fmt.Sprintf(`package %s.data

import androidx.room.Entity
import androidx.room.PrimaryKey

@Entity(tableName = "items")
data class Item(
    @PrimaryKey(autoGenerate = true) val id: Long = 0,
    val title: String,
    val createdAt: Long = System.currentTimeMillis()
)
`, pkg)
}

func roomDatabase(pkg string) string {
	return fmt.Sprintf(`package %s.data

import android.content.Context
import androidx.room.Database
import androidx.room.Room
import androidx.room.RoomDatabase

@Database(entities = [Item::class], version = 1, exportSchema = false)
abstract class AppDatabase : RoomDatabase() {
    companion object {
        @Volatile
        private var instance: AppDatabase? = null

        fun get(context: Context): AppDatabase =
            instance ?: synchronized(this) {
                instance ?: Room.databaseBuilder(
                    context.applicationContext,
                    AppDatabase::class.java,
                    "app.db"
                ).build().also { instance = it }
            }
    }
}
`, pkg)
}

func apiService(pkg string) string {
	return fmt.Sprintf(`package %s.network

import retrofit2.Retrofit
import retrofit2.converter.gson.GsonConverterFactory
import retrofit2.http.GET

interface ApiService {
    @GET("items")
    suspend fun listItems(): List<String>

    companion object {
        fun create(baseUrl: String): ApiService =
            Retrofit.Builder()
                .baseUrl(baseUrl)
                .addConverterFactory(GsonConverterFactory.create())
                .build()
                .create(ApiService::class.java)
    }
}
`, pkg)
}

func itemAdapter(pkg string) string {
	return fmt.Sprintf(`package %s.ui

import android.view.LayoutInflater
import android.view.ViewGroup
import android.widget.TextView
import androidx.recyclerview.widget.RecyclerView

class ItemAdapter(private val items: List<String>) :
    RecyclerView.Adapter<ItemAdapter.ViewHolder>() {

    class ViewHolder(val view: TextView) : RecyclerView.ViewHolder(view)

    override fun onCreateViewHolder(parent: ViewGroup, viewType: Int): ViewHolder {
        val view = LayoutInflater.from(parent.context)
            .inflate(android.R.layout.simple_list_item_1, parent, false) as TextView
        return ViewHolder(view)
    }

    override fun onBindViewHolder(holder: ViewHolder, position: Int) {
        holder.view.text = items[position]
    }

    override fun getItemCount() = items.size
}
`, pkg)
}
